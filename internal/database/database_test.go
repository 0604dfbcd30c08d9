package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm"

	"CampusHire-backend/internal/model"
)

func TestMain(m *testing.M) {
	code := m.Run()

	if teardown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = teardown(ctx)
		cancel()
	}
	os.Exit(code)
}

func postgresDB(t *testing.T) *DBinstanceStruct {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	_, db, err := GetTestDB()
	require.NoError(t, err, "postgres container failed to start")
	return db
}

func TestNew(t *testing.T) {
	db := postgresDB(t)
	assert.True(t, db.Migrator().HasTable(&model.Job{}))
	assert.True(t, db.Migrator().HasTable(&model.Application{}))
}

func TestHealth(t *testing.T) {
	db := postgresDB(t)
	stats := db.Health()

	if stats["status"] != "up" {
		t.Fatalf("expected status to be up, got %s", stats["status"])
	}

	if _, ok := stats["error"]; ok {
		t.Fatalf("expected error not to be present")
	}

	if stats["message"] != "It's healthy" {
		t.Fatalf("expected message to be 'It's healthy', got %s", stats["message"])
	}
}

func TestPostgresUniqueApplication(t *testing.T) {
	db := postgresDB(t)
	f := TestFixtures

	app := model.Application{
		JobID:     f.Job3.ID,
		StudentID: f.Student2.ID,
		AppliedAt: time.Now(),
		Status:    model.ApplicationStatusPending,
	}
	require.NoError(t, db.Omit("Job", "Student").Create(&app).Error)

	dup := app
	dup.ID = 0
	err := db.Omit("Job", "Student").Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestClose(t *testing.T) {
	db := postgresDB(t)

	other, err := NewDBInstance(db.Config)
	require.NoError(t, err)

	if other.Close() != nil {
		t.Fatalf("expected Close() to return nil")
	}
}

func TestSQLiteInstance(t *testing.T) {
	db, f := NewSQLiteTestDB(t)

	stats := db.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, DriverSQLite, stats["driver"])

	var job model.Job
	require.NoError(t, db.First(&job, f.Job1.ID).Error)
	assert.Equal(t, []string{"Go basics", "SQL familiarity"}, job.Requirements)
	assert.Equal(t, f.College1.ID, job.CollegeID)

	var college model.User
	require.NoError(t, db.First(&college, "id = ?", f.College1.ID).Error)
	assert.Equal(t, "Tech U", college.CollegeName, "college name follows the college's own name")
}

func TestSQLiteUniqueApplication(t *testing.T) {
	db, f := NewSQLiteTestDB(t)

	app := model.Application{JobID: f.Job1.ID, StudentID: f.Student1.ID, AppliedAt: time.Now(), Status: model.ApplicationStatusPending}
	require.NoError(t, db.Omit("Job", "Student").Create(&app).Error)

	dup := model.Application{JobID: f.Job1.ID, StudentID: f.Student1.ID, AppliedAt: time.Now(), Status: model.ApplicationStatusPending}
	err := db.Omit("Job", "Student").Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDropAllTables(t *testing.T) {
	db, _ := NewSQLiteTestDB(t)

	require.NoError(t, DropAllTables(db))
	assert.False(t, db.Migrator().HasTable(&model.User{}))
	assert.False(t, db.Migrator().HasTable(&model.Job{}))
}

func TestDialectorErrors(t *testing.T) {
	_, err := (&DBConfig{Driver: DriverPostgres}).dialector()
	assert.Error(t, err)

	_, err = (&DBConfig{Driver: DriverPostgres, useConstr: true}).dialector()
	assert.Error(t, err)

	_, err = (&DBConfig{Driver: "mysql"}).dialector()
	assert.Error(t, err)

	_, err = (&DBConfig{Driver: DriverSQLite}).dialector()
	assert.Error(t, err)
}
