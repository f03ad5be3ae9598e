package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/shared"
)

// Handler exposes role management and the permission catalog.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	evaluator *Evaluator
	guard     Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, evaluator *Evaluator, guard Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		evaluator: evaluator,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers role and permission endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(ResourceUsers, OpView))
		r.Get("/roles", h.listRoles)
		r.Get("/roles/{id}", h.getRole)
		r.Get("/permissions", h.listPermissions)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(ResourceUsers, OpCreate))
		r.Post("/roles", h.createRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(ResourceUsers, OpUpdate))
		r.Put("/roles/{id}", h.updateRole)
		r.Put("/assignments/{userID}", h.assignRole)
		r.Delete("/assignments/{userID}", h.unassignRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(ResourceUsers, OpDelete))
		r.Delete("/roles/{id}", h.deleteRole)
	})
	r.Get("/me/permissions", h.myPermissions)
}

type roleForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Permissions Matrix `json:"permissions"`
}

type roleUpdateForm struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Permissions *Matrix `json:"permissions"`
}

type assignForm struct {
	RoleID string `json:"role_id" validate:"required"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var form roleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "role name is required")
		return
	}
	role, err := h.service.CreateRole(r.Context(), CreateRoleInput{
		Name:        form.Name,
		Description: form.Description,
		Permissions: form.Permissions,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, role)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	var form roleUpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	role, err := h.service.UpdateRole(r.Context(), chi.URLParam(r, "id"), UpdateRoleInput{
		Name:        form.Name,
		Description: form.Description,
		Permissions: form.Permissions,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, role)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteRole(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	var form assignForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "role_id is required")
		return
	}
	if err := h.service.AssignRole(r.Context(), chi.URLParam(r, "userID"), form.RoleID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) unassignRole(w http.ResponseWriter, r *http.Request) {
	if err := h.service.UnassignRole(r.Context(), chi.URLParam(r, "userID")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"catalog": Catalog()})
}

type resourceGrants struct {
	Resource   Resource    `json:"resource"`
	Operations []Operation `json:"operations"`
	All        bool        `json:"all"`
	Some       bool        `json:"some"`
}

// myPermissions returns the caller's effective grants per catalog entry.
// The SPA uses it to decide which navigation entries and controls to render.
func (h *Handler) myPermissions(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	isAdmin := sess.AccountKind() == shared.AccountKindAdmin
	out := make([]resourceGrants, 0, len(Catalog()))
	for _, spec := range Catalog() {
		grants := resourceGrants{Resource: spec.Resource, Operations: []Operation{}}
		for _, op := range spec.Operations {
			allowed := isAdmin
			if !allowed {
				var err error
				allowed, err = h.evaluator.Can(r.Context(), sess.User(), spec.Resource, op)
				if err != nil {
					h.logger.Error("resolve permissions", slog.Any("error", err))
					httpx.RespondError(w, err)
					return
				}
			}
			if allowed {
				grants.Operations = append(grants.Operations, op)
			}
		}
		grants.All = len(grants.Operations) == len(spec.Operations)
		grants.Some = len(grants.Operations) > 0
		out = append(out, grants)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"grants": out})
}
