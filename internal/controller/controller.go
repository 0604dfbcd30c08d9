// Package controller holds helpers shared by the HTTP handler packages
package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"CampusHire-backend/internal/jobboard"
	"CampusHire-backend/internal/model"
	"CampusHire-backend/internal/utilities"
)

// StatusFor maps a job board error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, jobboard.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, jobboard.ErrNotAuthorized), errors.Is(err, jobboard.ErrOwnershipViolation):
		return http.StatusForbidden
	case errors.Is(err, jobboard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobboard.ErrDuplicateApplication):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError responds with the status matching err and its message
func WriteError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), utilities.ErrorResponse{Error: err.Error()})
}

// ActorFromContext returns the actor of the authenticated user.
// It responds and returns false when there is none.
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	actor := user.Actor()
	if actor == nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "User doesn't have permission to access"})
		return nil, false
	}
	return actor, true
}

// CollegeFromContext is ActorFromContext narrowed to colleges
func CollegeFromContext(c *gin.Context) (model.College, bool) {
	actor, ok := ActorFromContext(c)
	if !ok {
		return model.College{}, false
	}
	college, err := model.AsCollege(actor)
	if err != nil {
		WriteError(c, err)
		return model.College{}, false
	}
	return college, true
}

// StudentFromContext is ActorFromContext narrowed to students
func StudentFromContext(c *gin.Context) (model.Student, bool) {
	actor, ok := ActorFromContext(c)
	if !ok {
		return model.Student{}, false
	}
	student, err := model.AsStudent(actor)
	if err != nil {
		WriteError(c, err)
		return model.Student{}, false
	}
	return student, true
}

// IDParam parses a numeric path parameter. It responds with 400 on failure.
func IDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid %s", name),
		})
		return 0, false
	}
	return uint(id), true
}
