package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotAuthorized is returned when an actor's role does not permit an operation
var ErrNotAuthorized = errors.New("not authorized")

// Actor is the identity acting on the job board. The set of implementations
// is closed: only College and Student satisfy it.
type Actor interface {
	ActorID() uuid.UUID
	ActorRole() Role
	actor()
}

// College is an organization that owns job posts
type College struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// ActorID returns the college user id
func (c College) ActorID() uuid.UUID { return c.ID }

// ActorRole always returns RoleCollege
func (College) ActorRole() Role { return RoleCollege }

func (College) actor() {}

// Student applies to jobs posted under their CollegeName
type Student struct {
	ID          uuid.UUID
	Name        string
	Email       string
	CollegeName string
}

// ActorID returns the student user id
func (s Student) ActorID() uuid.UUID { return s.ID }

// ActorRole always returns RoleStudent
func (Student) ActorRole() Role { return RoleStudent }

func (Student) actor() {}

// AsCollege narrows an actor to a College or fails with ErrNotAuthorized
func AsCollege(a Actor) (College, error) {
	c, ok := a.(College)
	if !ok {
		return College{}, ErrNotAuthorized
	}
	return c, nil
}

// AsStudent narrows an actor to a Student or fails with ErrNotAuthorized
func AsStudent(a Actor) (Student, error) {
	s, ok := a.(Student)
	if !ok {
		return Student{}, ErrNotAuthorized
	}
	return s, nil
}
