package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages audit timeline endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceAuditLogs, rbac.OpView))
		r.Get("/", h.timeline)
		r.Get("/export.csv", h.exportCSV)
	})
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	filter, cursor, pageSize, err := parseQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	page, err := h.service.Timeline(r.Context(), filter, cursor, pageSize)
	if err != nil {
		h.logger.Error("list audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filter, cursor, pageSize, err := parseQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	page, err := h.service.Timeline(r.Context(), filter, cursor, pageSize)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-log.csv")
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "at", "actor_id", "action", "entity", "entity_id", "meta"})
	for _, event := range page.Events {
		meta := ""
		if event.Meta != nil {
			if raw, err := json.Marshal(event.Meta); err == nil {
				meta = string(raw)
			}
		}
		_ = cw.Write([]string{
			strconv.FormatInt(event.ID, 10),
			event.At.UTC().Format(time.RFC3339),
			event.ActorID,
			event.Action,
			event.Entity,
			event.EntityID,
			meta,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("write audit csv", slog.Any("error", err))
	}
}

func parseQuery(r *http.Request) (Filter, int64, int, error) {
	q := r.URL.Query()
	filter := Filter{
		ActorID: q.Get("actor_id"),
		Entity:  q.Get("entity"),
		Action:  q.Get("action"),
	}
	var cursor int64
	if raw := q.Get("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return Filter{}, 0, 0, fmt.Errorf("cursor must be a non-negative integer")
		}
		cursor = parsed
	}
	pageSize := 0
	if raw := q.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Filter{}, 0, 0, fmt.Errorf("page_size must be a positive integer")
		}
		pageSize = parsed
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Filter{}, 0, 0, fmt.Errorf("from must be YYYY-MM-DD")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Filter{}, 0, 0, fmt.Errorf("to must be YYYY-MM-DD")
		}
		filter.To = t
	}
	return filter, cursor, pageSize, nil
}
