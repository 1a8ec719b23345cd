package model

import (
	"fmt"
	"time"
)

// SignupStatus is the lifecycle state of a signup
type SignupStatus string

const (
	SignupRegistered SignupStatus = "registered"
	SignupCompleted  SignupStatus = "completed"
	SignupCancelled  SignupStatus = "cancelled"
)

func (s SignupStatus) IsValid() bool {
	return s == SignupRegistered || s == SignupCompleted || s == SignupCancelled
}

// IsTerminal reports whether no further transition is possible
func (s SignupStatus) IsTerminal() bool {
	return s == SignupCompleted || s == SignupCancelled
}

// HoldsSlot reports whether a signup in this state counts against capacity.
// Completed signups keep the slot they consumed.
func (s SignupStatus) HoldsSlot() bool {
	return s == SignupRegistered || s == SignupCompleted
}

// ParseSignupStatus parses a status supplied by a caller
func ParseSignupStatus(raw string) (SignupStatus, error) {
	s := SignupStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown signup status %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// CheckTransition validates moving a signup from one status to another
func CheckTransition(from, to SignupStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown signup status %q", ErrInvalidStatus, to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: signup is already %s", ErrInvalidStatus, from)
	}
	if to == SignupRegistered {
		return fmt.Errorf("%w: signups cannot move back to %s", ErrInvalidStatus, to)
	}
	return nil
}

// Signup is a volunteer's claim on one slot of an opportunity
type Signup struct {
	ID            string       `json:"id"`
	VolunteerID   string       `json:"volunteerId"`
	OpportunityID string       `json:"opportunityId"`
	Status        SignupStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}
