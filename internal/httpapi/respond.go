package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rcliao/person-registry/internal/model"
)

var errInvalidLimit = errors.New("limit must be a non-negative integer")

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates registry errors to a JSON envelope. Storage details
// stay in the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := model.ErrValidation.Error()
		if verr.Duplicate {
			msg = model.ErrDuplicateKey.Error()
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Fields: verr.Fields})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: model.ErrNotFound.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"request_id", RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
