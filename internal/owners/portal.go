package owners

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/platform/httpx"
	"github.com/harborstay/harborstay/internal/shared"
)

var errInvalidPeriod = errors.New("year and month must be integers, month between 1 and 12")

// PortalHandler serves the owner self-service portal. Every route resolves
// the owner profile from the session, owners only ever see their own data.
type PortalHandler struct {
	logger  *slog.Logger
	service *Service
}

// NewPortalHandler builds a PortalHandler instance.
func NewPortalHandler(logger *slog.Logger, service *Service) *PortalHandler {
	return &PortalHandler{logger: logger, service: service}
}

// MountRoutes registers owner portal routes.
func (h *PortalHandler) MountRoutes(r chi.Router) {
	r.Get("/profile", h.profile)
	r.Get("/rooms", h.rooms)
	r.Get("/statement", h.statement)
}

func (h *PortalHandler) resolveOwner(w http.ResponseWriter, r *http.Request) (Owner, bool) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in to access the owner portal")
		return Owner{}, false
	}
	owner, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("portal account without owner profile", slog.String("user_id", userID))
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "no owner profile linked to this account")
			return Owner{}, false
		}
		httpx.RespondError(w, err)
		return Owner{}, false
	}
	return owner, true
}

func (h *PortalHandler) profile(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, owner)
}

func (h *PortalHandler) rooms(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	ownerRooms, err := h.service.Rooms(r.Context(), owner.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rooms": ownerRooms})
}

func (h *PortalHandler) statement(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	year, month, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	statement, err := h.service.MonthlyStatement(r.Context(), owner.ID, year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statement)
}
