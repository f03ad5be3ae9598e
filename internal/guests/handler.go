package guests

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/rbac"
)

// Handler manages guest endpoints.
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

// MountRoutes registers guest routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceGuests, rbac.OpView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceGuests, rbac.OpCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceGuests, rbac.OpUpdate))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ResourceGuests, rbac.OpDelete))
		r.Delete("/{id}", h.remove)
	})
}

type guestForm struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	IDNumber    string `json:"id_number"`
	Notes       string `json:"notes"`
}

type updateForm struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Nationality *string `json:"nationality"`
	IDNumber    *string `json:"id_number"`
	Notes       *string `json:"notes"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	guests, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("list guests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"guests": guests})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	guest, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guest)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form guestForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email must be a valid address")
		return
	}
	guest, err := h.service.Create(r.Context(), CreateInput{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		Nationality: form.Nationality,
		IDNumber:    form.IDNumber,
		Notes:       form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, guest)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form updateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	guest, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		Nationality: form.Nationality,
		IDNumber:    form.IDNumber,
		Notes:       form.Notes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guest)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
