package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates that the application is waiting for review
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusReviewed indicates that the college has looked at the application
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	// ApplicationStatusAccepted indicates that the application has been accepted
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in display order
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseApplicationStatus parses a status case-insensitively
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status: %q", raw)
	}
	return s, nil
}

// Application represents a job application record.
// StudentName and StudentEmail are a snapshot taken when the student applied.
type Application struct {
	ID    uint `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID uint `gorm:"not null;uniqueIndex:idx_applications_job_student" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	StudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_student;index" json:"student_id"`
	Student      User      `gorm:"foreignKey:StudentID;references:ID" json:"-"`
	StudentName  string    `gorm:"type:text" json:"student_name"`
	StudentEmail string    `gorm:"type:text" json:"student_email"`

	CoverLetter string            `gorm:"type:text" json:"cover_letter,omitempty"`
	AppliedAt   time.Time         `gorm:"not null;<-:create" json:"applied_at"`
	Status      ApplicationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
}

// ApplicationWithJob is an application joined with the job it was submitted to
type ApplicationWithJob struct {
	Application
	JobTitle    string `json:"job_title"`
	CollegeName string `json:"college_name"`
}
