package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborstay/harborstay/internal/audit"
	"github.com/harborstay/harborstay/internal/auth"
	"github.com/harborstay/harborstay/internal/bookings"
	"github.com/harborstay/harborstay/internal/cleaning"
	"github.com/harborstay/harborstay/internal/expenses"
	"github.com/harborstay/harborstay/internal/guests"
	"github.com/harborstay/harborstay/internal/observability"
	"github.com/harborstay/harborstay/internal/owners"
	"github.com/harborstay/harborstay/internal/rbac"
	"github.com/harborstay/harborstay/internal/reports"
	"github.com/harborstay/harborstay/internal/rooms"
	"github.com/harborstay/harborstay/internal/settings"
	"github.com/harborstay/harborstay/internal/users"
	"github.com/harborstay/harborstay/jobs"
)

// RouterParams collects every handler the HTTP surface mounts.
type RouterParams struct {
	Middleware []func(http.Handler) http.Handler

	Auth        *auth.Handler
	RBAC        *rbac.Handler
	Users       *users.Handler
	Bookings    *bookings.Handler
	Rooms       *rooms.Handler
	Guests      *guests.Handler
	Owners      *owners.Handler
	OwnerPortal *owners.PortalHandler
	Cleaning    *cleaning.Handler
	Expenses    *expenses.Handler
	Settings    *settings.Handler
	Reports     *reports.Handler
	Audit       *audit.Handler
	Jobs        *jobs.Handler
	Metrics     *observability.Metrics
}

// NewRouter assembles the HTTP surface: a public auth area, a staff API
// behind the staff portal gate, and the owner self-service portal.
func NewRouter(params RouterParams) chi.Router {
	r := chi.NewRouter()
	for _, mw := range params.Middleware {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.Auth.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireStaff)
			r.Route("/rbac", params.RBAC.MountRoutes)
			r.Route("/users", params.Users.MountRoutes)
			r.Route("/bookings", params.Bookings.MountRoutes)
			r.Route("/rooms", params.Rooms.MountRoutes)
			r.Route("/guests", params.Guests.MountRoutes)
			r.Route("/owners", params.Owners.MountRoutes)
			r.Route("/cleaning", params.Cleaning.MountRoutes)
			r.Route("/expenses", params.Expenses.MountRoutes)
			r.Route("/settings", params.Settings.MountRoutes)
			r.Route("/reports", params.Reports.MountRoutes)
			r.Route("/audit-logs", params.Audit.MountRoutes)
			if params.Jobs != nil {
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAdmin)
					r.Route("/jobs", params.Jobs.MountRoutes)
				})
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireOwner)
			r.Route("/portal", params.OwnerPortal.MountRoutes)
		})
	})

	return r
}
