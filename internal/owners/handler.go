package owners

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages staff-facing owner endpoints.
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

// MountRoutes registers owner management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceOwners, rbac.OpView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/rooms", h.listRooms)
		r.Get("/{id}/statement", h.statement)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceOwners, rbac.OpCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceOwners, rbac.OpUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceOwners, rbac.OpDelete))
		r.Delete("/{id}", h.remove)
	})
}

type createForm struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone"`
	CommissionPct float64 `json:"commission_pct" validate:"min=0,max=100"`
	BankAccount   string  `json:"bank_account"`
	Notes         string  `json:"notes"`
}

type updateForm struct {
	UserID        *string  `json:"user_id"`
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	CommissionPct *float64 `json:"commission_pct"`
	BankAccount   *string  `json:"bank_account"`
	Notes         *string  `json:"notes"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owners, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list owners", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"owners": owners})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, owner)
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	ownerRooms, err := h.service.Rooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rooms": ownerRooms})
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	statement, err := h.service.MonthlyStatement(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statement)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "name is required, commission must be 0-100")
		return
	}
	owner, err := h.service.Create(r.Context(), CreateInput{
		UserID:        form.UserID,
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		CommissionPct: form.CommissionPct,
		BankAccount:   form.BankAccount,
		Notes:         form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, owner)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	owner, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		UserID:        form.UserID,
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		CommissionPct: form.CommissionPct,
		BankAccount:   form.BankAccount,
		Notes:         form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, owner)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func parsePeriod(r *http.Request) (int, time.Month, error) {
	q := r.URL.Query()
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errInvalidPeriod
		}
		year = parsed
	}
	if raw := q.Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, errInvalidPeriod
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}
