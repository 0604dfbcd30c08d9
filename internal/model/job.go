package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType is the employment type of a job post
type JobType string

// Job types accepted on creation
const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"
)

// ExpiringSoonWindow is how close a deadline has to be for a job to count as expiring soon
const ExpiringSoonWindow = 7 * 24 * time.Hour

// EditableJobInfo is the part of a job supplied by the posting college
type EditableJobInfo struct {
	Title        string    `gorm:"type:text;not null" json:"title" validate:"required"`
	Description  string    `gorm:"type:text;not null" json:"description" validate:"required"`
	Location     string    `gorm:"type:text;not null" json:"location" validate:"required"`
	Type         JobType   `gorm:"type:text;not null;index" json:"type" validate:"required,oneof=full-time part-time internship contract"`
	Deadline     time.Time `gorm:"not null" json:"deadline" validate:"required"`
	Salary       string    `gorm:"type:text" json:"salary,omitempty"`
	Requirements []string  `gorm:"type:text;serializer:json" json:"requirements"`
}

// Normalize trims text fields and drops blank requirements in place
func (e *EditableJobInfo) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Location = strings.TrimSpace(e.Location)
	e.Salary = strings.TrimSpace(e.Salary)
	e.Type = JobType(strings.ToLower(strings.TrimSpace(string(e.Type))))

	reqs := make([]string, 0, len(e.Requirements))
	for _, r := range e.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	e.Requirements = reqs
}

// Job is gorm model for store job post data in DB.
// Applications is never written through the job row, it is loaded from the
// applications table on read.
type Job struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CollegeID   uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"college_id"`
	CollegeName string    `gorm:"type:text;not null;<-:create" json:"college_name"`
	// CollegeKey is CollegeKey(CollegeName); students are matched on it
	CollegeKey string `gorm:"type:text;not null;default:'';index;<-:create" json:"-"`
	// SearchText is the folded title, description and location
	SearchText string `gorm:"type:text;not null;default:'';<-:create" json:"-"`
	EditableJobInfo
	CreatedAt    time.Time     `gorm:"<-:create" json:"created_at"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

// CollegeKey folds a college name the way student and job college names are compared.
// The database only ever compares keys produced here, never folds text itself.
func CollegeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FoldSearch folds text and search terms for substring matching
func FoldSearch(text string) string {
	return strings.ToLower(text)
}

// BeforeCreate fills the derived lookup columns
func (j *Job) BeforeCreate(_ *gorm.DB) error {
	j.CollegeKey = CollegeKey(j.CollegeName)
	j.SearchText = FoldSearch(strings.Join([]string{j.Title, j.Description, j.Location}, "\n"))
	return nil
}

// VisibleToCollegeName reports whether a student of the named college may see the job
func (j *Job) VisibleToCollegeName(name string) bool {
	key := CollegeKey(name)
	return key != "" && key == CollegeKey(j.CollegeName)
}

// Expired reports whether the deadline has passed at now
func (j *Job) Expired(now time.Time) bool {
	return j.Deadline.Before(now)
}

// ExpiringSoon reports whether the job is still open but closes within ExpiringSoonWindow
func (j *Job) ExpiringSoon(now time.Time) bool {
	return !j.Expired(now) && j.Deadline.Sub(now) <= ExpiringSoonWindow
}

// OwnedBy reports whether the college posted this job
func (j *Job) OwnedBy(c College) bool {
	return j.CollegeID == c.ID
}

// JobResponse is the response struct for a job as seen by a given actor
type JobResponse struct {
	ID               uint      `json:"id"`
	CollegeID        uuid.UUID `json:"college_id"`
	CollegeName      string    `json:"college_name"`
	CreatedAt        time.Time `json:"created_at"`
	Expired          bool      `json:"expired"`
	ApplicationCount int       `json:"application_count"`
	UserApplied      bool      `json:"user_applied"`
	EditableJobInfo
	Applications []Application `json:"applications,omitempty"`
}

// ToJobResponse converts Job to JobResponse for the actor.
// Only the owning college sees the applications themselves.
func (j *Job) ToJobResponse(actor Actor, now time.Time) JobResponse {
	resp := JobResponse{
		ID:               j.ID,
		CollegeID:        j.CollegeID,
		CollegeName:      j.CollegeName,
		CreatedAt:        j.CreatedAt,
		Expired:          j.Expired(now),
		ApplicationCount: len(j.Applications),
		EditableJobInfo:  j.EditableJobInfo,
	}
	if resp.Requirements == nil {
		resp.Requirements = []string{}
	}

	switch a := actor.(type) {
	case College:
		if j.OwnedBy(a) {
			resp.Applications = j.Applications
		}
	case Student:
		for _, application := range j.Applications {
			if application.StudentID == a.ID {
				resp.UserApplied = true
				break
			}
		}
	}
	return resp
}
