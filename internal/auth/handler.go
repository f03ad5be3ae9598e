package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.staffLogin)
	r.Post("/owner/login", h.ownerLogin)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type sessionResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccountKind string `json:"account_kind"`
	CSRFToken   string `json:"csrf_token,omitempty"`
}

func (h *Handler) staffLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.AuthenticateStaff)
}

func (h *Handler) ownerLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.service.AuthenticateOwner)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, authenticate func(context.Context, string, string) (*Account, error)) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	account, err := authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		h.logger.Info("login rejected", slog.String("email", form.Email))
		httpx.Problem(w, http.StatusUnauthorized, "Login Failed", "invalid credentials")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.SetUser(account.ID, account.AccountKind)
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("issue csrf token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, sessionResponse{
		UserID:      account.ID,
		Name:        account.Name,
		Email:       account.Email,
		AccountKind: account.AccountKind,
		CSRFToken:   token,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessions.Destroy(sess)
	}
	httpx.NoContent(w)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		UserID:      sess.User(),
		AccountKind: sess.AccountKind(),
	})
}
