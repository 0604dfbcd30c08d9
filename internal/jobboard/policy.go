package jobboard

import (
	"fmt"

	"CampusHire-backend/internal/model"
)

// StatusPolicy decides which application status changes a college may make
type StatusPolicy interface {
	Allow(from, to model.ApplicationStatus) bool
}

// PermissivePolicy allows any valid status to follow any other, including a
// return to pending.
type PermissivePolicy struct{}

// Allow implements StatusPolicy
func (PermissivePolicy) Allow(_, to model.ApplicationStatus) bool {
	return to.Valid()
}

// FinalStatePolicy treats accepted and rejected as terminal.
// Setting the current status again is always allowed.
type FinalStatePolicy struct{}

// Allow implements StatusPolicy
func (FinalStatePolicy) Allow(from, to model.ApplicationStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	return !isFinalStatus(from)
}

func isFinalStatus(status model.ApplicationStatus) bool {
	return status == model.ApplicationStatusAccepted || status == model.ApplicationStatusRejected
}

// Policy names accepted by PolicyByName
const (
	PolicyPermissive = "permissive"
	PolicyFinal      = "final"
)

// PolicyByName returns the status policy configured under name
func PolicyByName(name string) (StatusPolicy, error) {
	switch name {
	case "", PolicyPermissive:
		return PermissivePolicy{}, nil
	case PolicyFinal:
		return FinalStatePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown application status policy %q", name)
	}
}
