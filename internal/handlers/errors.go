package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkstats/internal/shortener"
	"go.uber.org/zap"
)

// APIError is the body of every error response.
type APIError struct {
	Title      string `doc:"HTTP status text"        example:"Bad Request"         json:"error"`
	Message    string `doc:"What went wrong"         example:"shortcode too short" json:"message"`
	StatusCode int    `doc:"HTTP status code, again" example:"400"                 json:"statusCode"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) GetStatus() int {
	return e.StatusCode
}

var installEnvelope sync.Once

// UseErrorEnvelope makes huma render every error as an APIError.
// Request validation failures are reported as 400 rather than 422.
func UseErrorEnvelope() {
	installEnvelope.Do(func() {
		huma.NewError = newAPIError
	})
}

func newAPIError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}

	if len(details) > 0 {
		msg = msg + ": " + strings.Join(details, "; ")
	}

	return &APIError{
		Title:      http.StatusText(status),
		Message:    msg,
		StatusCode: status,
	}
}

var errorStatus = []struct {
	target error
	status int
}{
	{shortener.ErrInvalidTarget, http.StatusBadRequest},
	{shortener.ErrInvalidValidity, http.StatusBadRequest},
	{shortener.ErrInvalidCode, http.StatusBadRequest},
	{shortener.ErrCodeConflict, http.StatusConflict},
	{shortener.ErrNotFound, http.StatusNotFound},
	{shortener.ErrGenerationExhausted, http.StatusServiceUnavailable},
}

// toHTTPError maps registry errors to huma status errors.
// The sentinel text is used as the message so request input is not echoed back.
func toHTTPError(err error) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return huma.NewError(e.status, e.target.Error())
		}
	}

	return huma.Error500InternalServerError("internal server error")
}

// NotFound answers requests that matched no route.
func NotFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("route not found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		writeAPIError(w, http.StatusNotFound, "route not found")
	}
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, http.StatusMethodNotAllowed, r.Method+" is not supported on "+r.URL.Path)
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(&APIError{
		Title:      http.StatusText(status),
		Message:    msg,
		StatusCode: status,
	})
}
