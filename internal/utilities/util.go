// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"

	"github.com/gin-gonic/gin"

	"CampusHire-backend/internal/model"
)

// Keys under which the auth middleware stores request state
const (
	ContextKeyUser   = "user"
	ContextKeyClaims = "claims"
)

var (
	errNoUser       = errors.New("User information not provided")
	errUserTypeCast = errors.New("Failed to assert type")
)

// ErrorResponse type for error bodies
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for plain message bodies
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser returns the authenticated user stored by RequireAuth.
// It never aborts the request.
func ExtractUser(c *gin.Context) (model.User, error) {
	raw, exists := c.Get(ContextKeyUser)
	if !exists || raw == nil {
		return model.User{}, errNoUser
	}
	if user, ok := raw.(model.User); ok {
		return user, nil
	}
	return model.User{}, errUserTypeCast
}
