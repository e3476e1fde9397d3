// Package respond writes JSON responses and turns errors into messages that
// are safe to show to API clients.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as JSON with the given status. A nil v writes no body.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; all we can do is log.
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes {"error": err.Error()} without sanitizing. Use it only for
// errors built from constant, user-facing text.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments mark validation-style messages that may be shown as-is.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"already exists",
	"must be",
	"must contain",
	"cannot be",
	"too long",
	"too short",
	"rate limit",
	"unauthorized",
	"forbidden",
}

// SafeError writes an error response without leaking internals.
//
// An *AppError contributes its own code and user message. Otherwise 5xx
// responses always read "internal server error", and 4xx messages are kept
// only when they look like validation feedback. Hidden details are logged
// after SanitizeError masks credentials.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	msg := err.Error()
	if code < 500 && isSafe(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	fallback := "internal server error"
	if code < 500 {
		fallback = strings.ToLower(http.StatusText(code))
	}
	JSON(w, code, map[string]string{"error": fallback})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, f := range safeFragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// AppError pairs a user-facing message and status with the internal cause.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// WPErrorBody is the error envelope of the WordPress REST API.
type WPErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

// WPError writes a WordPress-style error such as
// {"code":"rest_post_invalid_id","message":"Invalid post ID.","data":{"status":404}}.
func WPError(w http.ResponseWriter, status int, code, message string) {
	body := WPErrorBody{Code: code, Message: message}
	body.Data.Status = status
	JSON(w, status, body)
}
