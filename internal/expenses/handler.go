package expenses

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages expense endpoints.
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

// MountRoutes registers expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceExpenses, rbac.OpView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceExpenses, rbac.OpCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceExpenses, rbac.OpUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceExpenses, rbac.OpDelete))
		r.Delete("/{id}", h.remove)
	})
}

const dateLayout = "2006-01-02"

type createForm struct {
	PropertyID  string  `json:"property_id" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required"`
	RoomID      string  `json:"room_id"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	IncurredOn  string  `json:"incurred_on" validate:"required"`
	Vendor      string  `json:"vendor"`
	Receipt     string  `json:"receipt"`
}

type updateForm struct {
	CategoryID  *string  `json:"category_id"`
	RoomID      *string  `json:"room_id"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	IncurredOn  *string  `json:"incurred_on"`
	Vendor      *string  `json:"vendor"`
	Receipt     *string  `json:"receipt"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		PropertyID: q.Get("property_id"),
		CategoryID: q.Get("category_id"),
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "from must be YYYY-MM-DD")
			return
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "to must be YYYY-MM-DD")
			return
		}
		filter.To = t
	}
	expenses, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "property, category, description, a positive amount and incurred_on are required")
		return
	}
	incurredOn, err := time.Parse(dateLayout, form.IncurredOn)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "incurred_on must be YYYY-MM-DD")
		return
	}
	expense, err := h.service.Create(r.Context(), CreateInput{
		PropertyID:  form.PropertyID,
		CategoryID:  form.CategoryID,
		RoomID:      form.RoomID,
		Description: form.Description,
		Amount:      form.Amount,
		IncurredOn:  incurredOn,
		Vendor:      form.Vendor,
		Receipt:     form.Receipt,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	input := UpdateInput{
		CategoryID:  form.CategoryID,
		RoomID:      form.RoomID,
		Description: form.Description,
		Amount:      form.Amount,
		Vendor:      form.Vendor,
		Receipt:     form.Receipt,
	}
	if form.IncurredOn != nil {
		t, err := time.Parse(dateLayout, *form.IncurredOn)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "incurred_on must be YYYY-MM-DD")
			return
		}
		input.IncurredOn = &t
	}
	expense, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
