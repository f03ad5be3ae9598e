package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages reference catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceSettings, rbac.OpView))
		r.Get("/properties", h.listProperties)
		r.Get("/room-types", h.listRoomTypes)
		r.Get("/booking-sources", h.listBookingSources)
		r.Get("/expense-categories", h.listExpenseCategories)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceSettings, rbac.OpUpdate))
		r.Post("/properties", h.saveProperty)
		r.Post("/room-types", h.saveRoomType)
		r.Post("/booking-sources", h.saveBookingSource)
		r.Post("/expense-categories", h.saveExpenseCategory)
		r.Delete("/expense-categories/{id}", h.deleteExpenseCategory)
	})
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.service.Properties(r.Context())
	if err != nil {
		h.logger.Error("list properties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"properties": properties})
}

func (h *Handler) saveProperty(w http.ResponseWriter, r *http.Request) {
	var p Property
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	saved, err := h.service.SaveProperty(r.Context(), p)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	roomTypes, err := h.service.RoomTypes(r.Context())
	if err != nil {
		h.logger.Error("list room types", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"room_types": roomTypes})
}

func (h *Handler) saveRoomType(w http.ResponseWriter, r *http.Request) {
	var rt RoomType
	if err := httpx.DecodeJSON(r, &rt); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	saved, err := h.service.SaveRoomType(r.Context(), rt)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) listBookingSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.BookingSources(r.Context())
	if err != nil {
		h.logger.Error("list booking sources", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"booking_sources": sources})
}

func (h *Handler) saveBookingSource(w http.ResponseWriter, r *http.Request) {
	var bs BookingSource
	if err := httpx.DecodeJSON(r, &bs); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	saved, err := h.service.SaveBookingSource(r.Context(), bs)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) listExpenseCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ExpenseCategories(r.Context())
	if err != nil {
		h.logger.Error("list expense categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expense_categories": categories})
}

func (h *Handler) saveExpenseCategory(w http.ResponseWriter, r *http.Request) {
	var ec ExpenseCategory
	if err := httpx.DecodeJSON(r, &ec); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	saved, err := h.service.SaveExpenseCategory(r.Context(), ec)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteExpenseCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExpenseCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
