package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// Response is the envelope of every JSON response
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error describes a failed request
type Error struct {
	Code    model.Code `json:"code"`
	Message string     `json:"message"`
}

const maxBodyBytes = 1 << 20

// statusFor maps an error code to its HTTP status
func statusFor(code model.Code) int {
	switch code {
	case model.CodeValidation, model.CodeInvalidStatus:
		return http.StatusBadRequest
	case model.CodeUnauthenticated:
		return http.StatusUnauthorized
	case model.CodeNotAuthorized:
		return http.StatusForbidden
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeOpportunityNotAvailable, model.CodeCapacityExhausted, model.CodeDuplicateSignup,
		model.CodeEventAlreadyStarted, model.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes data inside a success envelope
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeErrorCode writes an error envelope with the status belonging to code
func writeErrorCode(w http.ResponseWriter, code model.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(code))
	if err := json.NewEncoder(w).Encode(Response{Error: &Error{Code: code, Message: message}}); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError reports a service error. Storage failures are logged and their
// details withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := model.CodeOf(err)
	message := err.Error()
	if code == model.CodeStorage {
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "Internal server error"
	}
	writeErrorCode(w, code, message)
}

// decodeJSON reads a single JSON object from the request body
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", model.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %v", model.ErrValidation, err)
	}
	return nil
}
