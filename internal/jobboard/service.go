// Package jobboard holds the job posting and application rules: who may post,
// who sees which jobs, and how applications move through review.
package jobboard

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/repository"
)

// Recorder receives domain events, typically to update metrics
type Recorder interface {
	JobCreated(jobType model.JobType)
	ApplicationSubmitted(outcome string)
	ApplicationStatusChanged(status model.ApplicationStatus)
}

// Outcomes passed to Recorder.ApplicationSubmitted
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeExpired   = "expired"
	OutcomeRejected  = "rejected"
)

type nopRecorder struct{}

func (nopRecorder) JobCreated(model.JobType) {}

func (nopRecorder) ApplicationSubmitted(string) {}

func (nopRecorder) ApplicationStatusChanged(model.ApplicationStatus) {}

// JobFilter narrows ListVisibleJobs
type JobFilter struct {
	// Search matches title, description or location, ignoring case
	Search string
	Type   model.JobType
	// ActiveOnly drops jobs whose deadline has passed
	ActiveOnly bool
}

// Service implements the job board operations on top of a Repository
type Service struct {
	repo     repository.Repository
	now      func() time.Time
	policy   StatusPolicy
	recorder Recorder
	log      logrus.FieldLogger
	validate *validator.Validate
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPolicy sets the status policy. PermissivePolicy is used by default.
func WithPolicy(p StatusPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRecorder sets the event recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service backed by repo
func NewService(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		now:      time.Now,
		policy:   PermissivePolicy{},
		recorder: nopRecorder{},
		log:      logrus.StandardLogger(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateJob posts a new job on behalf of college
func (s *Service) CreateJob(ctx context.Context, college model.College, info model.EditableJobInfo) (*model.Job, error) {
	if strings.TrimSpace(college.Name) == "" {
		return nil, validationError("college name is required")
	}

	info.Normalize()
	if err := s.validate.Struct(info); err != nil {
		return nil, describeValidation(err)
	}

	now := s.now().UTC()
	info.Deadline = info.Deadline.UTC()
	if !info.Deadline.After(now) {
		return nil, validationError("deadline must be in the future")
	}

	job := &model.Job{
		CollegeID:       college.ID,
		CollegeName:     college.Name,
		EditableJobInfo: info,
		CreatedAt:       now,
		Applications:    []model.Application{},
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.recorder.JobCreated(job.Type)
	s.log.WithFields(logrus.Fields{
		"job_id":     job.ID,
		"college_id": college.ID,
	}).Info("job created")
	return job, nil
}

// ApplyToJob submits a pending application of student to the job.
// The student must belong to the posting college and the deadline must not have passed.
func (s *Service) ApplyToJob(ctx context.Context, student model.Student, jobID uint, coverLetter string) (*model.Application, error) {
	now := s.now().UTC()

	var created *model.Application
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		job, err := tx.FindJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("job", jobID)
			}
			return err
		}
		if !visibleTo(job, student) {
			return ErrOwnershipViolation
		}
		if job.Expired(now) {
			return ErrJobExpired
		}

		if _, err := tx.FindApplicationByJobAndStudent(ctx, jobID, student.ID); err == nil {
			return ErrDuplicateApplication
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		application := &model.Application{
			JobID:        job.ID,
			StudentID:    student.ID,
			StudentName:  student.Name,
			StudentEmail: student.Email,
			CoverLetter:  strings.TrimSpace(coverLetter),
			AppliedAt:    now,
			Status:       model.ApplicationStatusPending,
		}
		if err := tx.CreateApplication(ctx, application); err != nil {
			// lost a race against a concurrent apply for the same pair
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateApplication
			}
			return err
		}
		created = application
		return nil
	})

	fields := logrus.Fields{"job_id": jobID, "student_id": student.ID}
	switch {
	case err == nil:
		s.recorder.ApplicationSubmitted(OutcomeCreated)
		s.log.WithFields(fields).WithField("application_id", created.ID).Info("application submitted")
		return created, nil
	case errors.Is(err, ErrDuplicateApplication):
		s.recorder.ApplicationSubmitted(OutcomeDuplicate)
	case errors.Is(err, ErrJobExpired):
		s.recorder.ApplicationSubmitted(OutcomeExpired)
	default:
		s.recorder.ApplicationSubmitted(OutcomeRejected)
	}
	s.log.WithFields(fields).WithError(err).Debug("application not submitted")
	return nil, err
}

// UpdateApplicationStatus changes the status of an application to a job owned by college
func (s *Service) UpdateApplicationStatus(ctx context.Context, college model.College, applicationID uint, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, validationError("unknown status %q", status)
	}

	var updated *model.Application
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		application, err := tx.FindApplication(ctx, applicationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("application", applicationID)
			}
			return err
		}
		if !application.Job.OwnedBy(college) {
			return ErrOwnershipViolation
		}
		if !s.policy.Allow(application.Status, status) {
			return validationError("cannot change status from %s to %s", application.Status, status)
		}
		if err := tx.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
			return err
		}
		application.Status = status
		updated = application
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.ApplicationStatusChanged(status)
	s.log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"college_id":     college.ID,
		"status":         status,
	}).Info("application status updated")
	return updated, nil
}

// ListVisibleJobs returns the jobs the actor may see in creation order.
// Colleges see their own posts, students see posts of their college.
func (s *Service) ListVisibleJobs(ctx context.Context, actor model.Actor, filter JobFilter) ([]model.Job, error) {
	q := repository.JobQuery{
		Search: filter.Search,
		Type:   model.JobType(strings.ToLower(strings.TrimSpace(string(filter.Type)))),
	}
	if q.Type != "" && !validJobType(q.Type) {
		return nil, validationError("unknown job type %q", filter.Type)
	}

	switch a := actor.(type) {
	case model.College:
		q.CollegeID = &a.ID
	case model.Student:
		if strings.TrimSpace(a.CollegeName) == "" {
			return []model.Job{}, nil
		}
		q.CollegeName = strings.TrimSpace(a.CollegeName)
	default:
		return nil, ErrNotAuthorized
	}

	jobs, err := s.repo.ListJobs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if !filter.ActiveOnly {
		return jobs, nil
	}

	now := s.now()
	active := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if !job.Expired(now) {
			active = append(active, job)
		}
	}
	return active, nil
}

// GetJob returns one job if the actor may see it
func (s *Service) GetJob(ctx context.Context, actor model.Actor, jobID uint) (*model.Job, error) {
	if actor == nil {
		return nil, ErrNotAuthorized
	}
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("job", jobID)
		}
		return nil, err
	}
	if !visibleTo(job, actor) {
		return nil, notFound("job", jobID)
	}
	return job, nil
}

// ListApplicationsForJob returns the applications to a job owned by college
func (s *Service) ListApplicationsForJob(ctx context.Context, college model.College, jobID uint) ([]model.Application, error) {
	job, err := s.repo.FindJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("job", jobID)
		}
		return nil, err
	}
	if !job.OwnedBy(college) {
		return nil, ErrOwnershipViolation
	}

	applications, err := s.repo.ListApplicationsByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// ListApplicationsForStudent returns the student's applications, most recent first
func (s *Service) ListApplicationsForStudent(ctx context.Context, student model.Student) ([]model.ApplicationWithJob, error) {
	applications, err := s.repo.ListApplicationsByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// HasApplied reports whether the actor applied to the job. It is always false
// for colleges.
func (s *Service) HasApplied(ctx context.Context, actor model.Actor, jobID uint) (bool, error) {
	student, ok := actor.(model.Student)
	if !ok {
		return false, nil
	}
	_, err := s.repo.FindApplicationByJobAndStudent(ctx, jobID, student.ID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func visibleTo(job *model.Job, actor model.Actor) bool {
	switch a := actor.(type) {
	case model.College:
		return job.OwnedBy(a)
	case model.Student:
		return job.VisibleToCollegeName(a.CollegeName)
	default:
		return false
	}
}

func validJobType(t model.JobType) bool {
	switch t {
	case model.JobTypeFullTime, model.JobTypePartTime, model.JobTypeInternship, model.JobTypeContract:
		return true
	default:
		return false
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, ", "))
}
