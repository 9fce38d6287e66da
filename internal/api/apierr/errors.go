package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/bingobot/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeAlreadyActive    = "ALREADY_ACTIVE"
	CodeNotJoinable      = "NOT_JOINABLE"
	CodeNotRunning       = "NOT_RUNNING"
	CodeNotActive        = "NOT_ACTIVE"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeInvalidMode      = "INVALID_MODE"
	CodeInvalidNumber    = "INVALID_NUMBER"
	CodeNotInGame        = "NOT_IN_GAME"
	CodeNotCalled        = "NOT_CALLED"
	CodeNotOnCard        = "NOT_ON_CARD"
	CodeAlreadyJoined    = "ALREADY_JOINED"
	CodeAlreadyMarked    = "ALREADY_MARKED"
	CodeOnCooldown       = "ON_COOLDOWN"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// codes maps each game error to its API code
var codes = map[*model.Error]string{
	model.ErrAlreadyActive:    CodeAlreadyActive,
	model.ErrNotJoinable:      CodeNotJoinable,
	model.ErrNotRunning:       CodeNotRunning,
	model.ErrNotActive:        CodeNotActive,
	model.ErrPermissionDenied: CodePermissionDenied,
	model.ErrInvalidMode:      CodeInvalidMode,
	model.ErrInvalidNumber:    CodeInvalidNumber,
	model.ErrNotInGame:        CodeNotInGame,
	model.ErrNotCalled:        CodeNotCalled,
	model.ErrNotOnCard:        CodeNotOnCard,
	model.ErrAlreadyJoined:    CodeAlreadyJoined,
	model.ErrAlreadyMarked:    CodeAlreadyMarked,
	model.ErrOnCooldown:       CodeOnCooldown,
	model.ErrRateLimited:      CodeRateLimited,
}

// statuses maps each error kind to an HTTP status
var statuses = map[model.ErrorKind]int{
	model.KindInvalidState: http.StatusConflict,
	model.KindPermission:   http.StatusForbidden,
	model.KindValidation:   http.StatusUnprocessableEntity,
	model.KindNotFound:     http.StatusNotFound,
	model.KindDuplicate:    http.StatusConflict,
	model.KindCooldown:     http.StatusTooManyRequests,
	model.KindRateLimit:    http.StatusTooManyRequests,
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map game errors by kind
	var ge *model.Error
	if errors.As(err, &ge) {
		status, ok := statuses[ge.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		code, ok := codes[ge]
		if !ok {
			code = CodeInvalidRequest
		}
		return &httpError{status, APIError{code, ge.Error()}}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewTooManyRequestsError creates a request throttling error
func NewTooManyRequestsError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeTooManyRequests, "Too many requests. Please slow down."}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// PanicHandler writes a JSON internal error after a recovered panic
func PanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	WriteError(w, NewInternalError())
}
