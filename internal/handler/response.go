package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/dto"
)

// base содержит общие для хендлеров зависимости и методы ответа
type base struct {
	validator *validator.Validate
	logger    *slog.Logger
}

func newBase(logger *slog.Logger) base {
	return base{
		validator: validator.New(),
		logger:    logger,
	}
}

// extractID возвращает первый сегмент пути после prefix
func (h *base) extractID(r *http.Request, prefix string) (string, error) {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", errors.New("id is required")
	}

	return parts[0], nil
}

func (h *base) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPersonNotFound):
		h.respondError(w, http.StatusNotFound, "person not found", "")
	case errors.Is(err, domain.ErrNodeNotFound):
		h.respondError(w, http.StatusNotFound, "node not found in the current hierarchy", "")
	case errors.Is(err, domain.ErrSupervisorNotFound):
		h.respondError(w, http.StatusNotFound, "supervisor not found", "")
	case errors.Is(err, domain.ErrDuplicatePersonID):
		h.respondError(w, http.StatusConflict, "person with this id already exists", "")
	case errors.Is(err, domain.ErrSelfReference):
		h.respondError(w, http.StatusBadRequest, "person cannot report to themselves", "")
	case errors.Is(err, domain.ErrCyclicReference):
		h.respondError(w, http.StatusConflict, "reporting line would create a cycle", "")
	case errors.Is(err, domain.ErrMalformedRecord):
		h.respondError(w, http.StatusBadRequest, "malformed person record", err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		h.respondError(w, http.StatusServiceUnavailable, "data unavailable", "")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *base) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
