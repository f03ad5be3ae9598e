package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers reporting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceDashboard, rbac.OpView))
		r.Get("/dashboard", h.dashboard)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceReports, rbac.OpView))
		r.Get("/monthly", h.monthly)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceReports, rbac.OpExport))
		r.Get("/monthly.csv", h.exportCSV)
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	report, err := h.service.Monthly(r.Context(), year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	report, err := h.service.Monthly(r.Context(), year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=report-%04d-%02d.csv", year, int(month)))
	if err := WriteCSV(w, report); err != nil {
		h.logger.Error("write report csv", slog.Any("error", err))
	}
}

func parsePeriod(r *http.Request) (int, time.Month, error) {
	q := r.URL.Query()
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("year must be an integer")
		}
		year = parsed
	}
	if raw := q.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, fmt.Errorf("month must be between 1 and 12")
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}
