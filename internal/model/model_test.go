package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	job := Job{EditableJobInfo: EditableJobInfo{Deadline: now.Add(-time.Minute)}}
	assert.True(t, job.Expired(now))
	assert.False(t, job.ExpiringSoon(now))

	job.Deadline = now.Add(48 * time.Hour)
	assert.False(t, job.Expired(now))
	assert.True(t, job.ExpiringSoon(now))

	job.Deadline = now.Add(30 * 24 * time.Hour)
	assert.False(t, job.ExpiringSoon(now))
}

func TestEditableJobInfoNormalize(t *testing.T) {
	info := EditableJobInfo{
		Title:        "  Intern ",
		Type:         " Internship",
		Requirements: []string{"Go", "  ", "", " SQL "},
	}
	info.Normalize()

	assert.Equal(t, "Intern", info.Title)
	assert.Equal(t, JobTypeInternship, info.Type)
	assert.Equal(t, []string{"Go", "SQL"}, info.Requirements)
}

func TestParseApplicationStatus(t *testing.T) {
	s, err := ParseApplicationStatus(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusAccepted, s)

	_, err = ParseApplicationStatus("hired")
	assert.Error(t, err)
}

func TestUserActor(t *testing.T) {
	id := uuid.New()

	college := User{ID: id, Name: "Tech U", Role: RoleCollege}
	c, err := AsCollege(college.Actor())
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	_, err = AsStudent(college.Actor())
	assert.ErrorIs(t, err, ErrNotAuthorized)

	student := User{ID: id, Name: "Alice", Role: RoleStudent, CollegeName: "Tech U"}
	s, err := AsStudent(student.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Tech U", s.CollegeName)

	assert.Nil(t, User{Role: "admin"}.Actor())
	_, err = AsCollege(nil)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestToJobResponse(t *testing.T) {
	now := time.Now()
	owner := College{ID: uuid.New(), Name: "Tech U"}
	other := College{ID: uuid.New(), Name: "State U"}
	alice := Student{ID: uuid.New(), Name: "Alice", CollegeName: "Tech U"}
	bob := Student{ID: uuid.New(), Name: "Bob", CollegeName: "Tech U"}

	job := Job{
		ID:              7,
		CollegeID:       owner.ID,
		CollegeName:     owner.Name,
		EditableJobInfo: EditableJobInfo{Title: "Intern", Deadline: now.Add(time.Hour)},
		Applications:    []Application{{ID: 1, JobID: 7, StudentID: alice.ID}},
	}

	resp := job.ToJobResponse(owner, now)
	assert.Len(t, resp.Applications, 1)
	assert.Equal(t, 1, resp.ApplicationCount)
	assert.Equal(t, []string{}, resp.Requirements)

	resp = job.ToJobResponse(other, now)
	assert.Empty(t, resp.Applications)

	resp = job.ToJobResponse(alice, now)
	assert.True(t, resp.UserApplied)
	assert.Empty(t, resp.Applications)

	resp = job.ToJobResponse(bob, now)
	assert.False(t, resp.UserApplied)
	assert.False(t, resp.Expired)
}

func TestJobLookupKeys(t *testing.T) {
	job := Job{
		CollegeName:     " ÉCOLE Polytechnique",
		EditableJobInfo: EditableJobInfo{Title: "Stage", Description: "Équipe", Location: "Palaiseau"},
	}
	assert.NoError(t, job.BeforeCreate(nil))
	assert.Equal(t, "école polytechnique", job.CollegeKey)
	assert.Contains(t, job.SearchText, "équipe")

	assert.True(t, job.VisibleToCollegeName("école POLYTECHNIQUE "))
	assert.False(t, job.VisibleToCollegeName("ecole polytechnique"))
	assert.False(t, job.VisibleToCollegeName("  "))
}
