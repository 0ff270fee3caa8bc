package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/msomdec/todo-api/internal/domain"
)

// errorResponse maps a service error onto a status code and a message that is
// safe to show to the caller. Unknown errors are logged and hidden.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Not logged in."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid password."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You can only modify your own todos."
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "User with that email exists."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, detailMessage(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, detailMessage(err, domain.ErrNotFound)
	default:
		slog.Error("unhandled service error", "error", err)
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, message := errorResponse(err)
	writeError(w, status, message)
}

// detailMessage turns "invalid input: title is required" into "Title is
// required" so the sentinel's own text never reaches the caller.
func detailMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
