package bookings

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages booking endpoints.
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

// MountRoutes registers booking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceBookings, rbac.OpView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceBookings, rbac.OpCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceBookings, rbac.OpUpdate))
		r.Put("/{id}", h.update)
		r.Post("/{id}/status", h.transition)
		r.Post("/{id}/payments", h.recordPayment)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceBookings, rbac.OpDelete))
		r.Delete("/{id}", h.remove)
	})
}

const dateLayout = "2006-01-02"

type createForm struct {
	RoomID          string  `json:"room_id" validate:"required"`
	GuestID         string  `json:"guest_id" validate:"required"`
	CheckInDate     string  `json:"check_in_date" validate:"required"`
	CheckOutDate    string  `json:"check_out_date" validate:"required"`
	Adults          int     `json:"adults" validate:"min=1"`
	Children        int     `json:"children" validate:"min=0"`
	BaseRate        float64 `json:"base_rate" validate:"min=0"`
	TotalAmount     float64 `json:"total_amount" validate:"min=0"`
	SecurityDeposit float64 `json:"security_deposit" validate:"min=0"`
	Commission      float64 `json:"commission" validate:"min=0"`
	TourismFee      float64 `json:"tourism_fee" validate:"min=0"`
	VAT             float64 `json:"vat" validate:"min=0"`
	SourceID        string  `json:"source_id"`
	AgentID         string  `json:"agent_id"`
	Notes           string  `json:"notes"`
}

type updateForm struct {
	RoomID          *string  `json:"room_id"`
	GuestID         *string  `json:"guest_id"`
	CheckInDate     *string  `json:"check_in_date"`
	CheckOutDate    *string  `json:"check_out_date"`
	Adults          *int     `json:"adults"`
	Children        *int     `json:"children"`
	BaseRate        *float64 `json:"base_rate"`
	TotalAmount     *float64 `json:"total_amount"`
	SecurityDeposit *float64 `json:"security_deposit"`
	Commission      *float64 `json:"commission"`
	TourismFee      *float64 `json:"tourism_fee"`
	VAT             *float64 `json:"vat"`
	SourceID        *string  `json:"source_id"`
	AgentID         *string  `json:"agent_id"`
	Notes           *string  `json:"notes"`
}

type transitionForm struct {
	Status string `json:"status" validate:"required"`
}

type paymentForm struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	bookings, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    total,
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "room, guest, dates and at least one adult are required")
		return
	}
	checkIn, checkOut, err := parseStay(form.CheckInDate, form.CheckOutDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	booking, err := h.service.Create(r.Context(), CreateInput{
		RoomID:          form.RoomID,
		GuestID:         form.GuestID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Adults:          form.Adults,
		Children:        form.Children,
		BaseRate:        form.BaseRate,
		TotalAmount:     form.TotalAmount,
		SecurityDeposit: form.SecurityDeposit,
		Commission:      form.Commission,
		TourismFee:      form.TourismFee,
		VAT:             form.VAT,
		SourceID:        form.SourceID,
		AgentID:         form.AgentID,
		Notes:           form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, booking)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	input := UpdateInput{
		RoomID:          form.RoomID,
		GuestID:         form.GuestID,
		Adults:          form.Adults,
		Children:        form.Children,
		BaseRate:        form.BaseRate,
		TotalAmount:     form.TotalAmount,
		SecurityDeposit: form.SecurityDeposit,
		Commission:      form.Commission,
		TourismFee:      form.TourismFee,
		VAT:             form.VAT,
		SourceID:        form.SourceID,
		AgentID:         form.AgentID,
		Notes:           form.Notes,
	}
	if form.CheckInDate != nil {
		t, err := time.Parse(dateLayout, *form.CheckInDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "check_in_date must be YYYY-MM-DD")
			return
		}
		input.CheckInDate = &t
	}
	if form.CheckOutDate != nil {
		t, err := time.Parse(dateLayout, *form.CheckOutDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "check_out_date must be YYYY-MM-DD")
			return
		}
		input.CheckOutDate = &t
	}
	booking, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	var form transitionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status is required")
		return
	}
	booking, err := h.service.Transition(r.Context(), chi.URLParam(r, "id"), Status(form.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var form paymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be positive")
		return
	}
	booking, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "id"), form.Amount)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("check_in_date must be YYYY-MM-DD")
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("check_out_date must be YYYY-MM-DD")
	}
	return in, out, nil
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:  Status(q.Get("status")),
		RoomID:  q.Get("room_id"),
		GuestID: q.Get("guest_id"),
		Page:    1,
		PerPage: 20,
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListFilter{}, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > 100 {
			return ListFilter{}, errors.New("per_page must be between 1 and 100")
		}
		filter.PerPage = perPage
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ListFilter{}, errors.New("from must be YYYY-MM-DD")
		}
		filter.FromDate = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ListFilter{}, errors.New("to must be YYYY-MM-DD")
		}
		filter.ToDate = t
	}
	return filter, nil
}
