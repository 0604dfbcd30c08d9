package jobboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CampusHire-backend/internal/database"
	"CampusHire-backend/internal/logging"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/repository"
)

type countingRecorder struct {
	mu       sync.Mutex
	jobs     int
	outcomes map[string]int
	statuses map[model.ApplicationStatus]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[string]int{}, statuses: map[model.ApplicationStatus]int{}}
}

func (r *countingRecorder) JobCreated(model.JobType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs++
}

func (r *countingRecorder) ApplicationSubmitted(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *countingRecorder) ApplicationStatusChanged(status model.ApplicationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[status]++
}

type testEnv struct {
	svc      *Service
	repo     *repository.GormRepository
	f        database.Fixtures
	now      time.Time
	recorder *countingRecorder

	techU  model.College
	stateU model.College
	alice  model.Student
	bob    model.Student
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	db, f := database.NewSQLiteTestDB(t)
	repo := repository.NewGormRepository(db.DB)
	env := &testEnv{
		repo:     repo,
		f:        f,
		now:      time.Now().UTC(),
		recorder: newCountingRecorder(),
	}
	base := []Option{
		WithClock(func() time.Time { return env.now }),
		WithRecorder(env.recorder),
		WithLogger(logging.Discard()),
	}
	env.svc = NewService(repo, append(base, opts...)...)

	var err error
	env.techU, err = model.AsCollege(f.College1.Actor())
	require.NoError(t, err)
	env.stateU, err = model.AsCollege(f.College2.Actor())
	require.NoError(t, err)
	env.alice, err = model.AsStudent(f.Student1.Actor())
	require.NoError(t, err)
	env.bob, err = model.AsStudent(f.Student2.Actor())
	require.NoError(t, err)
	return env
}

func internInfo(deadline time.Time) model.EditableJobInfo {
	return model.EditableJobInfo{
		Title:        "Intern",
		Description:  "Summer internship",
		Location:     "Campus",
		Type:         model.JobTypeInternship,
		Deadline:     deadline,
		Requirements: []string{"Go"},
	}
}

func TestExampleScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.svc.CreateJob(ctx, env.techU, internInfo(env.now.Add(7*24*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, env.techU.ID, job.CollegeID)
	assert.Equal(t, "Tech U", job.CollegeName)

	application, err := env.svc.ApplyToJob(ctx, env.alice, job.ID, "I am interested")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, application.Status)
	assert.Equal(t, "Alice", application.StudentName)
	assert.Equal(t, "alice@example.com", application.StudentEmail)

	_, err = env.svc.ApplyToJob(ctx, env.alice, job.ID, "again")
	assert.ErrorIs(t, err, ErrDuplicateApplication)

	updated, err := env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, model.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusAccepted, updated.Status)

	history, err := env.svc.ListApplicationsForStudent(ctx, env.alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.ApplicationStatusAccepted, history[0].Status)
	assert.Equal(t, "Intern", history[0].JobTitle)

	applications, err := env.svc.ListApplicationsForJob(ctx, env.techU, job.ID)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, model.ApplicationStatusAccepted, applications[0].Status)

	assert.Equal(t, 1, env.recorder.jobs)
	assert.Equal(t, 1, env.recorder.outcomes[OutcomeCreated])
	assert.Equal(t, 1, env.recorder.outcomes[OutcomeDuplicate])
	assert.Equal(t, 1, env.recorder.statuses[model.ApplicationStatusAccepted])
}

func TestCreateJobValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := map[string]func(*model.EditableJobInfo){
		"past deadline":  func(i *model.EditableJobInfo) { i.Deadline = env.now.Add(-time.Hour) },
		"deadline now":   func(i *model.EditableJobInfo) { i.Deadline = env.now },
		"zero deadline":  func(i *model.EditableJobInfo) { i.Deadline = time.Time{} },
		"blank title":    func(i *model.EditableJobInfo) { i.Title = "   " },
		"no description": func(i *model.EditableJobInfo) { i.Description = "" },
		"no location":    func(i *model.EditableJobInfo) { i.Location = "" },
		"unknown type":   func(i *model.EditableJobInfo) { i.Type = "volunteer" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			info := internInfo(env.now.Add(24 * time.Hour))
			mutate(&info)
			job, err := env.svc.CreateJob(ctx, env.techU, info)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Nil(t, job)
		})
	}

	jobs, err := env.svc.ListVisibleJobs(ctx, env.techU, JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 3, "failed creates must not persist anything")
	assert.Zero(t, env.recorder.jobs)
}

func TestCreateJobNormalizes(t *testing.T) {
	env := newTestEnv(t)

	info := internInfo(env.now.Add(24 * time.Hour))
	info.Title = "  Intern  "
	info.Type = "Internship"
	info.Requirements = []string{"Go", " "}

	job, err := env.svc.CreateJob(context.Background(), env.techU, info)
	require.NoError(t, err)
	assert.Equal(t, "Intern", job.Title)
	assert.Equal(t, model.JobTypeInternship, job.Type)
	assert.Equal(t, []string{"Go"}, job.Requirements)
	assert.Empty(t, job.Applications)
}

func TestApplyToJobFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ApplyToJob(ctx, env.alice, 9999, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.ApplyToJob(ctx, env.alice, env.f.ExpiredJob.ID, "")
	assert.ErrorIs(t, err, ErrJobExpired)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.svc.ApplyToJob(ctx, env.alice, env.f.Job3.ID, "")
	assert.ErrorIs(t, err, ErrOwnershipViolation)

	applied, err := env.svc.HasApplied(ctx, env.alice, env.f.Job3.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	assert.Equal(t, 1, env.recorder.outcomes[OutcomeExpired])
	assert.Equal(t, 2, env.recorder.outcomes[OutcomeRejected])
}

func TestApplyToJobConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrDuplicateApplication):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, dupes)

	applications, err := env.svc.ListApplicationsForJob(ctx, env.techU, env.f.Job1.ID)
	require.NoError(t, err)
	assert.Len(t, applications, 1)
}

type racingRepository struct {
	repository.Repository
}

func (r racingRepository) Transaction(ctx context.Context, fn func(repository.Repository) error) error {
	return fn(r)
}

func (r racingRepository) FindApplicationByJobAndStudent(context.Context, uint, uuid.UUID) (*model.Application, error) {
	return nil, repository.ErrNotFound
}

func (r racingRepository) CreateApplication(context.Context, *model.Application) error {
	return repository.ErrDuplicate
}

func TestApplyToJobLostRace(t *testing.T) {
	env := newTestEnv(t)
	svc := NewService(racingRepository{Repository: env.repo},
		WithClock(func() time.Time { return env.now }),
		WithLogger(logging.Discard()),
	)

	_, err := svc.ApplyToJob(context.Background(), env.alice, env.f.Job1.ID, "")
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestUpdateApplicationStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	application, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
	require.NoError(t, err)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.stateU, application.ID, model.ApplicationStatusRejected)
	assert.ErrorIs(t, err, ErrOwnershipViolation)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, 9999, model.ApplicationStatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, "hired")
	assert.ErrorIs(t, err, ErrValidationFailed)

	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusReviewed,
		model.ApplicationStatusRejected,
		model.ApplicationStatusPending,
	} {
		updated, err := env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	job, err := env.svc.GetJob(ctx, env.techU, env.f.Job1.ID)
	require.NoError(t, err)
	require.Len(t, job.Applications, 1)
	assert.Equal(t, model.ApplicationStatusPending, job.Applications[0].Status)
}

func TestFinalStatePolicy(t *testing.T) {
	env := newTestEnv(t, WithPolicy(FinalStatePolicy{}))
	ctx := context.Background()

	application, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
	require.NoError(t, err)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, model.ApplicationStatusAccepted)
	require.NoError(t, err)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, model.ApplicationStatusAccepted)
	assert.NoError(t, err)

	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, model.ApplicationStatusPending)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestListVisibleJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("college sees own jobs in insertion order", func(t *testing.T) {
		jobs, err := env.svc.ListVisibleJobs(ctx, env.techU, JobFilter{})
		require.NoError(t, err)
		require.Len(t, jobs, 3)
		assert.Equal(t, env.f.Job1.ID, jobs[0].ID)
		assert.Equal(t, env.f.Job2.ID, jobs[1].ID)
		assert.Equal(t, env.f.ExpiredJob.ID, jobs[2].ID)
	})

	t.Run("student matches college name ignoring case", func(t *testing.T) {
		jobs, err := env.svc.ListVisibleJobs(ctx, env.alice, JobFilter{})
		require.NoError(t, err)
		require.Len(t, jobs, 3)
		for _, job := range jobs {
			assert.Equal(t, "Tech U", job.CollegeName)
		}

		jobs, err = env.svc.ListVisibleJobs(ctx, env.bob, JobFilter{})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, env.f.Job3.ID, jobs[0].ID)
	})

	t.Run("student without college", func(t *testing.T) {
		jobs, err := env.svc.ListVisibleJobs(ctx, model.Student{ID: uuid.New()}, JobFilter{})
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("filters", func(t *testing.T) {
		jobs, err := env.svc.ListVisibleJobs(ctx, env.alice, JobFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, jobs, 2)

		jobs, err = env.svc.ListVisibleJobs(ctx, env.alice, JobFilter{Search: "go services"})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, env.f.Job1.ID, jobs[0].ID)

		jobs, err = env.svc.ListVisibleJobs(ctx, env.alice, JobFilter{Type: "Part-Time"})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, env.f.Job2.ID, jobs[0].ID)

		_, err = env.svc.ListVisibleJobs(ctx, env.alice, JobFilter{Type: "volunteer"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("nil actor", func(t *testing.T) {
		_, err := env.svc.ListVisibleJobs(ctx, nil, JobFilter{})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.svc.GetJob(ctx, env.alice, env.f.Job1.ID)
	require.NoError(t, err)
	assert.Equal(t, env.f.Job1.Title, job.Title)

	_, err = env.svc.GetJob(ctx, env.alice, env.f.Job3.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.GetJob(ctx, env.stateU, env.f.Job1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.GetJob(ctx, nil, env.f.Job1.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestListApplicationsForJobOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.ListApplicationsForJob(ctx, env.stateU, env.f.Job1.ID)
	assert.ErrorIs(t, err, ErrOwnershipViolation)

	_, err = env.svc.ListApplicationsForJob(ctx, env.techU, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	applications, err := env.svc.ListApplicationsForJob(ctx, env.techU, env.f.Job2.ID)
	require.NoError(t, err)
	assert.NotNil(t, applications)
	assert.Empty(t, applications)

	submitted, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job2.ID, "Weekend shifts work for me")
	require.NoError(t, err)

	applications, err = env.svc.ListApplicationsForJob(ctx, env.techU, env.f.Job2.ID)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, submitted.ID, applications[0].ID)
	assert.Equal(t, "Alice", applications[0].StudentName)
	assert.Equal(t, "Weekend shifts work for me", applications[0].CoverLetter)
}

func TestListApplicationsForStudentOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
	require.NoError(t, err)

	env.now = env.now.Add(time.Minute)
	second, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job2.ID, "")
	require.NoError(t, err)

	history, err := env.svc.ListApplicationsForStudent(ctx, env.alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.True(t, !history[0].AppliedAt.Before(history[1].AppliedAt))

	history, err = env.svc.ListApplicationsForStudent(ctx, env.bob)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHasApplied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	applied, err := env.svc.HasApplied(ctx, env.alice, env.f.Job1.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
	require.NoError(t, err)

	applied, err = env.svc.HasApplied(ctx, env.alice, env.f.Job1.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = env.svc.HasApplied(ctx, env.techU, env.f.Job1.ID)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	application, err := env.svc.ApplyToJob(ctx, env.alice, env.f.Job1.ID, "")
	require.NoError(t, err)
	_, err = env.svc.ApplyToJob(ctx, env.alice, env.f.Job2.ID, "")
	require.NoError(t, err)
	_, err = env.svc.UpdateApplicationStatus(ctx, env.techU, application.ID, model.ApplicationStatusReviewed)
	require.NoError(t, err)

	stats, err := env.svc.Stats(ctx, env.techU)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalJobs)
	assert.Equal(t, 2, stats.ActiveJobs)
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, 2, stats.Applications)
	assert.Equal(t, 1, stats.ByStatus[model.ApplicationStatusPending])
	assert.Equal(t, 1, stats.ByStatus[model.ApplicationStatusReviewed])
	assert.Equal(t, 0, stats.ByStatus[model.ApplicationStatusAccepted])

	stats, err = env.svc.Stats(ctx, env.bob)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalJobs)
	assert.Equal(t, 1, stats.ActiveJobs)
	assert.Equal(t, 0, stats.Applications)

	stats, err = env.svc.Stats(ctx, env.stateU)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveJobs)
	assert.Equal(t, 0, stats.Applications)
}

func TestCollegeMatchingNonASCII(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ecole := model.College{ID: uuid.New(), Name: "ÉCOLE Polytechnique", Email: "jobs@ecole.fr"}
	job, err := env.svc.CreateJob(ctx, ecole, model.EditableJobInfo{
		Title:       "Stage Énergie",
		Description: "Équipe de recherche",
		Location:    "Palaiseau",
		Type:        model.JobTypeInternship,
		Deadline:    env.now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	zoe := model.Student{ID: uuid.New(), Name: "Zoé", Email: "zoe@example.com", CollegeName: " école polytechnique"}

	found, err := env.svc.GetJob(ctx, zoe, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)

	jobs, err := env.svc.ListVisibleJobs(ctx, zoe, JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	jobs, err = env.svc.ListVisibleJobs(ctx, zoe, JobFilter{Search: "ÉQUIPE"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	stats, err := env.svc.Stats(ctx, zoe)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveJobs)

	other := model.Student{ID: uuid.New(), Name: "Eve", CollegeName: "ecole polytechnique"}
	jobs, err = env.svc.ListVisibleJobs(ctx, other, JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	_, err = env.svc.GetJob(ctx, other, job.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.IsType(t, PermissivePolicy{}, p)

	p, err = PolicyByName(PolicyFinal)
	require.NoError(t, err)
	assert.False(t, p.Allow(model.ApplicationStatusRejected, model.ApplicationStatusReviewed))
	assert.True(t, p.Allow(model.ApplicationStatusPending, model.ApplicationStatusRejected))

	_, err = PolicyByName("strict")
	assert.Error(t, err)
}
