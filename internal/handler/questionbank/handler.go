package questionbank

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crackgpt/backend/internal/model/questionbank"
	"github.com/crackgpt/backend/pkg/utils"
)

// Handler serves the curated question bank.
type Handler struct {
	store questionbank.Store
}

// New creates the question bank handler.
func New(store questionbank.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the question bank routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/questionbank", h.handleList)
	r.Get("/questionbank/filters", h.handleFilters)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := questionbank.Filter{
		Subject:    q.Get("subject"),
		Difficulty: q.Get("difficulty"),
	}
	if cats, ok := q["category"]; ok {
		filter.Categories = cats
	}

	entries := h.store.List(filter)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"count":     len(entries),
		"questions": entries,
	})
}

func (h *Handler) handleFilters(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"subjects":     h.store.Subjects(),
		"difficulties": h.store.Difficulties(),
		"categories":   h.store.Categories(),
	})
}
