// Package repository is the record store of the job board: jobs, applications
// and the joins between them.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"CampusHire-backend/internal/model"
)

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// JobQuery selects jobs. Exactly one of CollegeID or CollegeName scopes the query.
type JobQuery struct {
	CollegeID   *uuid.UUID
	CollegeName string
	Search      string
	Type        model.JobType
}

// Repository is the persistence boundary used by the job board service
type Repository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	// FindJob loads a job together with its applications
	FindJob(ctx context.Context, id uint) (*model.Job, error)
	// ListJobs returns matching jobs with their applications, in insertion order
	ListJobs(ctx context.Context, q JobQuery) ([]model.Job, error)

	CreateApplication(ctx context.Context, application *model.Application) error
	// FindApplication loads an application together with its job
	FindApplication(ctx context.Context, id uint) (*model.Application, error)
	FindApplicationByJobAndStudent(ctx context.Context, jobID uint, studentID uuid.UUID) (*model.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uint) ([]model.Application, error)
	// ListApplicationsByStudent returns the student's applications joined with their jobs, newest first
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.ApplicationWithJob, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status model.ApplicationStatus) error

	// Transaction runs fn against a repository bound to one database transaction
	Transaction(ctx context.Context, fn func(Repository) error) error
}
