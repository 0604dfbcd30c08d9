package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	m "CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

// TestSeedPassword is the plain password of every seeded user
var TestSeedPassword = "SeedPass123!"

// Fixtures are the records seeded into every test database
type Fixtures struct {
	College1 m.User // "Tech U"
	College2 m.User // "State U"
	Student1 m.User // Alice, college name "tech u" (different case on purpose)
	Student2 m.User // Bob, "State U"

	Job1       m.Job // College1, deadline in a month
	Job2       m.Job // College1, deadline in three days
	Job3       m.Job // College2
	ExpiredJob m.Job // College1, deadline passed
}

var (
	testDBInstance *DBinstanceStruct
	teardown       func(context.Context, ...testcontainers.TerminateOption) error

	// TestFixtures holds the records seeded into the postgres test container
	TestFixtures Fixtures
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		Driver:    DriverPostgres,
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	fixtures, err := SeedTestData(db)
	if err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	TestFixtures = fixtures
	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// NewSQLiteTestDB returns an isolated in-memory database seeded with fixtures.
// The database is closed when the test ends.
func NewSQLiteTestDB(t testing.TB) (*DBinstanceStruct, Fixtures) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	config := &DBConfig{
		Driver:     DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		t.Fatalf("failed to open sqlite test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fixtures, err := SeedTestData(db)
	if err != nil {
		t.Fatalf("failed to seed sqlite test db: %v", err)
	}
	return db, fixtures
}

// SeedTestData inserts two colleges, two students and four jobs.
func SeedTestData(db *DBinstanceStruct) (Fixtures, error) {
	var f Fixtures

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return f, err
	}

	users := []m.User{
		{Email: "careers@techu.edu", Name: "Tech U", Role: m.RoleCollege, Password: hashedPwd},
		{Email: "jobs@stateu.edu", Name: "State U", Role: m.RoleCollege, Password: hashedPwd},
		{Email: "alice@example.com", Name: "Alice", Role: m.RoleStudent, CollegeName: "tech u", Password: hashedPwd},
		{Email: "bob@example.com", Name: "Bob", Role: m.RoleStudent, CollegeName: "State U", Password: hashedPwd},
	}
	if err := db.Create(&users).Error; err != nil {
		return f, err
	}
	f.College1, f.College2, f.Student1, f.Student2 = users[0], users[1], users[2], users[3]

	now := time.Now().UTC()
	jobs := []m.Job{
		{
			CollegeID:   f.College1.ID,
			CollegeName: f.College1.Name,
			CreatedAt:   now,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Backend Engineer Intern",
				Description:  "Work on Go services and database layers.",
				Location:     "Bangkok (Hybrid)",
				Type:         m.JobTypeInternship,
				Deadline:     now.AddDate(0, 1, 0),
				Salary:       "15000 THB",
				Requirements: []string{"Go basics", "SQL familiarity"},
			},
		},
		{
			CollegeID:   f.College1.ID,
			CollegeName: f.College1.Name,
			CreatedAt:   now,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Library Assistant",
				Description:  "Help students find resources.",
				Location:     "Main Campus",
				Type:         m.JobTypePartTime,
				Deadline:     now.Add(3 * 24 * time.Hour),
				Requirements: []string{},
			},
		},
		{
			CollegeID:   f.College2.ID,
			CollegeName: f.College2.Name,
			CreatedAt:   now,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Data Analyst",
				Description:  "Support data cleansing and dashboard creation.",
				Location:     "Remote",
				Type:         m.JobTypeFullTime,
				Deadline:     now.AddDate(0, 2, 0),
				Requirements: []string{"SQL", "Statistics"},
			},
		},
		{
			CollegeID:   f.College1.ID,
			CollegeName: f.College1.Name,
			CreatedAt:   now.AddDate(0, -1, 0),
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Summer Research Contract",
				Description:  "Closed research position.",
				Location:     "Lab 3",
				Type:         m.JobTypeContract,
				Deadline:     now.AddDate(0, 0, -1),
				Requirements: []string{},
			},
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return f, err
	}
	f.Job1, f.Job2, f.Job3, f.ExpiredJob = jobs[0], jobs[1], jobs[2], jobs[3]

	return f, nil
}
