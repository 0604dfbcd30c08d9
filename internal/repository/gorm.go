package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CampusHire-backend/internal/model"
)

// GormRepository implements Repository on top of gorm
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository using the given gorm handle
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

var _ Repository = (*GormRepository)(nil)

// CreateJob inserts the job without touching associations
func (r *GormRepository) CreateJob(ctx context.Context, job *model.Job) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error)
}

// FindJob loads a job with its applications
func (r *GormRepository) FindJob(ctx context.Context, id uint) (*model.Job, error) {
	job := model.Job{}
	err := r.db.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// ListJobs returns the jobs matching q ordered by id
func (r *GormRepository) ListJobs(ctx context.Context, q JobQuery) ([]model.Job, error) {
	result := r.db.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })

	switch {
	case q.CollegeID != nil:
		result = result.Where("college_id = ?", *q.CollegeID)
	case q.CollegeName != "":
		result = result.Where("college_key = ?", model.CollegeKey(q.CollegeName))
	default:
		return nil, errors.New("job query must be scoped to a college")
	}

	if search := model.FoldSearch(strings.TrimSpace(q.Search)); search != "" {
		result = result.Where("search_text LIKE ? ESCAPE '\\'", "%"+escapeLike(search)+"%")
	}

	if q.Type != "" {
		result = result.Where("type = ?", q.Type)
	}

	jobs := []model.Job{}
	if err := result.Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

// CreateApplication inserts the application. A second application for the
// same job and student fails with ErrDuplicate.
func (r *GormRepository) CreateApplication(ctx context.Context, application *model.Application) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error)
}

// FindApplication loads an application with its job
func (r *GormRepository) FindApplication(ctx context.Context, id uint) (*model.Application, error) {
	application := model.Application{}
	if err := r.db.WithContext(ctx).Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

// FindApplicationByJobAndStudent loads the application a student sent to a job
func (r *GormRepository) FindApplicationByJobAndStudent(ctx context.Context, jobID uint, studentID uuid.UUID) (*model.Application, error) {
	application := model.Application{}
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(&application).Error
	if err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

// ListApplicationsByJob returns the applications of a job in submission order
func (r *GormRepository) ListApplicationsByJob(ctx context.Context, jobID uint) ([]model.Application, error) {
	applications := []model.Application{}
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("id ASC").Find(&applications).Error; err != nil {
		return nil, translate(err)
	}
	return applications, nil
}

// ListApplicationsByStudent returns the student's applications joined with job title and college
func (r *GormRepository) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.ApplicationWithJob, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("student_id = ?", studentID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "applied_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Find(&applications).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]model.ApplicationWithJob, 0, len(applications))
	for _, a := range applications {
		out = append(out, model.ApplicationWithJob{
			Application: a,
			JobTitle:    a.Job.Title,
			CollegeName: a.Job.CollegeName,
		})
	}
	return out, nil
}

// UpdateApplicationStatus sets the status of one application
func (r *GormRepository) UpdateApplicationStatus(ctx context.Context, id uint, status model.ApplicationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transaction runs fn inside a database transaction
func (r *GormRepository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// translate maps driver and gorm errors onto the repository sentinels
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Message)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.Message)
		}
	}

	// sqlite drivers that do not translate constraint errors
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrDuplicate, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
