package rooms

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages room endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers room routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceRooms, rbac.OpView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceRooms, rbac.OpCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceRooms, rbac.OpUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceRooms, rbac.OpDelete))
		r.Delete("/{id}", h.remove)
	})
}

type createForm struct {
	PropertyID   string  `json:"property_id" validate:"required"`
	RoomTypeID   string  `json:"room_type_id" validate:"required"`
	OwnerID      string  `json:"owner_id"`
	Number       string  `json:"number" validate:"required"`
	Floor        int     `json:"floor"`
	BaseRate     float64 `json:"base_rate" validate:"min=0"`
	MaxOccupancy int     `json:"max_occupancy" validate:"min=1"`
	Notes        string  `json:"notes"`
}

type updateForm struct {
	RoomTypeID   *string  `json:"room_type_id"`
	OwnerID      *string  `json:"owner_id"`
	Number       *string  `json:"number"`
	Floor        *int     `json:"floor"`
	BaseRate     *float64 `json:"base_rate"`
	MaxOccupancy *int     `json:"max_occupancy"`
	Housekeeping *string  `json:"housekeeping"`
	IsActive     *bool    `json:"is_active"`
	Notes        *string  `json:"notes"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		PropertyID: q.Get("property_id"),
		OwnerID:    q.Get("owner_id"),
		ActiveOnly: q.Get("active") == "true",
	}
	rooms, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list rooms", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, room)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "property, room type, number and occupancy are required")
		return
	}
	room, err := h.service.Create(r.Context(), CreateInput{
		PropertyID:   form.PropertyID,
		RoomTypeID:   form.RoomTypeID,
		OwnerID:      form.OwnerID,
		Number:       form.Number,
		Floor:        form.Floor,
		BaseRate:     form.BaseRate,
		MaxOccupancy: form.MaxOccupancy,
		Notes:        form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, room)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	input := UpdateInput{
		RoomTypeID:   form.RoomTypeID,
		OwnerID:      form.OwnerID,
		Number:       form.Number,
		Floor:        form.Floor,
		BaseRate:     form.BaseRate,
		MaxOccupancy: form.MaxOccupancy,
		IsActive:     form.IsActive,
		Notes:        form.Notes,
	}
	if form.Housekeeping != nil {
		state := HousekeepingState(*form.Housekeeping)
		input.Housekeeping = &state
	}
	room, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, room)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
