// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type envelope struct {
	Success    bool        `json:"success"`
	Token      string      `json:"token,omitempty"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type Pagination struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func OKWithToken(w http.ResponseWriter, token string, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Token:   token,
		Data:    data,
	})
}

func Message(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, data any, page, pageSize, total int) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{
		Success: false,
		Error:   message,
	})
}

func ValidationFailed(w http.ResponseWriter, fields []FieldError) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{
		Success: false,
		Error:   "validation failed",
		Errors:  fields,
	})
}

func NotFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, errorEnvelope{
		Success: false,
		Error:   resource + " not found",
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "authentication required"
	}
	writeJSON(w, http.StatusUnauthorized, errorEnvelope{
		Success: false,
		Error:   message,
	})
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "insufficient permissions"
	}
	writeJSON(w, http.StatusForbidden, errorEnvelope{
		Success: false,
		Error:   message,
	})
}

func Conflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, errorEnvelope{
		Success: false,
		Error:   message,
	})
}

// InternalServerError logs the underlying error and returns a generic
// message. Internals never reach the client.
func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Success: false,
		Error:   "internal server error",
	})
}

func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, errorEnvelope{
			Success: false,
			Error:   appErr.Message,
		})
		return
	}

	InternalServerError(w, err)
}

func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorEnvelope{
		Success: false,
		Error:   "route not found",
	})
}

// FormatValidationErrors flattens validator.ValidationErrors into
// field/message pairs so every violated rule reaches the caller at once.
func FormatValidationErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "", Message: "invalid request"}}
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, FieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: validationMessage(fe),
		})
	}

	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "containsdigit":
		return "must contain at least one digit"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
