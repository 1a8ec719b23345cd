package model

import "errors"

// Sentinel errors for every failure kind a caller may need to tell apart.
// Wrap them with fmt.Errorf("%w: ...") to add detail; use CodeOf to map an
// error to its stable code rather than inspecting the message.
var (
	ErrValidation              = errors.New("validation failed")
	ErrNotFound                = errors.New("not found")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrOpportunityNotAvailable = errors.New("opportunity is not available for signup")
	ErrCapacityExhausted       = errors.New("opportunity has no remaining slots")
	ErrDuplicateSignup         = errors.New("volunteer already has an active signup for this opportunity")
	ErrEventAlreadyStarted     = errors.New("opportunity has already started")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrUnauthenticated         = errors.New("invalid credentials")
	ErrConflict                = errors.New("conflict")
	ErrStorage                 = errors.New("storage failure")

	// ErrLedgerInconsistent is returned when releasing a slot would push
	// remaining slots above the total. It surfaces as a storage error.
	ErrLedgerInconsistent = errors.New("capacity ledger inconsistent")
)

// Code is a stable machine-readable error code
type Code string

const (
	CodeValidation              Code = "VALIDATION_ERROR"
	CodeNotFound                Code = "NOT_FOUND"
	CodeNotAuthorized           Code = "NOT_AUTHORIZED"
	CodeOpportunityNotAvailable Code = "OPPORTUNITY_NOT_AVAILABLE"
	CodeCapacityExhausted       Code = "CAPACITY_EXHAUSTED"
	CodeDuplicateSignup         Code = "DUPLICATE_SIGNUP"
	CodeEventAlreadyStarted     Code = "EVENT_ALREADY_STARTED"
	CodeInvalidStatus           Code = "INVALID_STATUS"
	CodeUnauthenticated         Code = "UNAUTHENTICATED"
	CodeConflict                Code = "CONFLICT"
	CodeStorage                 Code = "STORAGE_ERROR"
)

// order matters: the first match wins, so specific kinds come before ErrStorage
var errorCodes = []struct {
	err  error
	code Code
}{
	{ErrValidation, CodeValidation},
	{ErrNotFound, CodeNotFound},
	{ErrNotAuthorized, CodeNotAuthorized},
	{ErrOpportunityNotAvailable, CodeOpportunityNotAvailable},
	{ErrCapacityExhausted, CodeCapacityExhausted},
	{ErrDuplicateSignup, CodeDuplicateSignup},
	{ErrEventAlreadyStarted, CodeEventAlreadyStarted},
	{ErrInvalidStatus, CodeInvalidStatus},
	{ErrUnauthenticated, CodeUnauthenticated},
	{ErrConflict, CodeConflict},
	{ErrStorage, CodeStorage},
	{ErrLedgerInconsistent, CodeStorage},
}

// CodeOf returns the stable code for err. Errors outside the taxonomy are
// reported as storage errors so internals never leak as a distinct kind.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeStorage
}
