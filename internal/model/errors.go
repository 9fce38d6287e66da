package model

import "errors"

// ErrorKind classifies game errors so adapters can map them uniformly
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidState
	KindPermission
	KindValidation
	KindNotFound
	KindDuplicate
	KindCooldown
	KindRateLimit
)

// String returns a stable name for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid_state"
	case KindPermission:
		return "permission"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindCooldown:
		return "cooldown"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// Error is a recoverable game error. Every sentinel below is an *Error.
type Error struct {
	Kind ErrorKind
	msg  string
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Error implements error
func (e *Error) Error() string {
	return e.msg
}

// KindOf returns the kind of err, or KindUnknown if it is not a game error
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// Common errors used across the application
var (
	// Phase errors
	ErrAlreadyActive = newError(KindInvalidState, "a game is already active")
	ErrNotJoinable   = newError(KindInvalidState, "no game is accepting players")
	ErrNotRunning    = newError(KindInvalidState, "no game is running")
	ErrNotActive     = newError(KindInvalidState, "no game is currently active")

	// Permission errors
	ErrPermissionDenied = newError(KindPermission, "permission denied")

	// Validation errors
	ErrInvalidMode   = newError(KindValidation, "invalid mode")
	ErrInvalidNumber = newError(KindValidation, "number must be between 1 and 75")

	// Player errors
	ErrNotInGame     = newError(KindNotFound, "player is not in the game")
	ErrNotCalled     = newError(KindValidation, "number has not been called")
	ErrNotOnCard     = newError(KindValidation, "number is not on the card")
	ErrAlreadyJoined = newError(KindDuplicate, "player has already joined")
	ErrAlreadyMarked = newError(KindDuplicate, "number is already marked")
	ErrOnCooldown    = newError(KindCooldown, "player is on cooldown")
	ErrRateLimited   = newError(KindRateLimit, "daily game creation limit reached")
)
