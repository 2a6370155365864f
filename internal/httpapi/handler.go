// Package httpapi exposes the registry over JSON HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/store"
)

const maxBodyBytes = 1 << 20

// Service is the registry behaviour the handler needs.
type Service interface {
	Create(ctx context.Context, in model.PersonInput) (*model.Person, error)
	Get(ctx context.Context, id int64) (*model.Person, error)
	List(ctx context.Context, p store.ListParams) ([]model.Person, error)
	Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*store.Stats, error)
}

// Handler serves the /api routes.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// New creates a Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register adds the record routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/records", h.handleCreate)
		r.Get("/records", h.handleList)
		r.Get("/records/{id}", h.handleGet)
		r.Put("/records/{id}", h.handleUpdate)
		r.Delete("/records/{id}", h.handleDelete)
		r.Get("/stats", h.handleStats)
		r.Get("/options", h.handleOptions)
	})
}

type mutationResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/records/"+strconv.FormatInt(p.ID, 10))
	writeJSON(w, http.StatusCreated, mutationResponse{ID: p.ID, Message: "record registered successfully"})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	persons, err := h.svc.List(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{ID: p.ID, Message: "record updated successfully"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{ID: id, Message: "record deleted successfully"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"genders": model.Genders,
		"cities":  model.Cities,
	})
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (model.PersonInput, bool) {
	var in model.PersonInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", RequestIDFrom(r.Context()),
			"error", err.Error(),
		)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return in, false
	}
	return in, true
}

// recordID parses the {id} path segment. Anything that is not a positive
// integer cannot name a record, so it is reported as not found.
func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: model.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func listParams(r *http.Request) (store.ListParams, error) {
	q := r.URL.Query()

	order, err := store.ParseOrder(q.Get("order"))
	if err != nil {
		return store.ListParams{}, err
	}

	p := store.ListParams{
		Query:  q.Get("q"),
		City:   q.Get("city"),
		Gender: model.CanonicalGender(q.Get("gender")),
		Order:  order,
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return store.ListParams{}, errInvalidLimit
		}
		p.Limit = n
	}
	return p, nil
}
