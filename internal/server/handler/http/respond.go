package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/atinyakov/puzzlenotes/internal/repository"
	"github.com/atinyakov/puzzlenotes/internal/service"
	"go.uber.org/zap"
)

// writeEnvelope sends {code, message, data} with code as the HTTP status.
func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	env := struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}{code, message, data}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, data any) {
	writeEnvelope(w, models.CodeOK, "success", data)
}

// writeError maps service and repository errors to envelope codes.
// Unknown errors are logged and reported as 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeEnvelope(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeEnvelope(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		writeEnvelope(w, http.StatusForbidden, "you do not own this note", nil)
	case errors.Is(err, repository.ErrNotFound):
		writeEnvelope(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, service.ErrUserExists):
		writeEnvelope(w, http.StatusConflict, err.Error(), nil)
	default:
		log.Error("request failed", zap.Error(err))
		writeEnvelope(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(service.ErrInvalidInput, err)
	}
	return nil
}

// intParam returns the integer query parameter key, or 0 when absent or malformed.
func intParam(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
