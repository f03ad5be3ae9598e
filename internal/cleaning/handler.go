package cleaning

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages housekeeping endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers housekeeping routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceCleaning, rbac.OpView))
		r.Get("/", h.board)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceCleaning, rbac.OpUpdate))
		r.Put("/{id}", h.update)
		r.Post("/generate", h.generate)
	})
}

type updateForm struct {
	Status     *string `json:"status"`
	AssigneeID *string `json:"assignee_id"`
	Notes      *string `json:"notes"`
}

func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "date must be YYYY-MM-DD")
		return
	}
	tasks, err := h.service.Board(r.Context(), date)
	if err != nil {
		h.logger.Error("list cleaning board", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": tasks, "date": date.Format("2006-01-02")})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	input := UpdateInput{AssigneeID: form.AssigneeID, Notes: form.Notes}
	if form.Status != nil {
		status := TaskStatus(*form.Status)
		input.Status = &status
	}
	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "date must be YYYY-MM-DD")
		return
	}
	created, err := h.service.GenerateForDate(r.Context(), date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"created": created})
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}
