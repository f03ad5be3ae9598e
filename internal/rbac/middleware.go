package rbac

import (
	"log/slog"
	"net/http"

	"github.com/harborstay/harborstay/internal/shared"
)

// Middleware wires per-action authorization into HTTP handlers. It sits
// behind the coarse staff/owner portal gate: admin accounts bypass the
// matrix entirely (matching the product's two-tier model), agents go
// through the evaluator.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
}

// Require allows the request only when the session user may perform op on
// resource.
func (m Middleware) Require(resource Resource, op Operation) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, userID string) (bool, error) {
		return m.Evaluator.Can(r.Context(), userID, resource, op)
	})
}

// RequireAny allows the request when any operation on the resource is
// granted. Used on index endpoints that only reveal the resource exists.
func (m Middleware) RequireAny(resource Resource) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, userID string) (bool, error) {
		return m.Evaluator.CanAny(r.Context(), userID, resource)
	})
}

func (m Middleware) guard(check func(*http.Request, string) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if sess.AccountKind() == shared.AccountKindAdmin {
				next.ServeHTTP(w, r)
				return
			}
			allowed, err := check(r, sess.User())
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorization check", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
