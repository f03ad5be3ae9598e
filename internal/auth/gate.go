package auth

import (
	"net/http"

	"github.com/harborstay/harborstay/internal/shared"
)

// Coarse portal gates. These run at the routing layer, once per subtree,
// before any fine-grained permission lookup.

// RequireStaff admits admin and agent accounts only.
func RequireStaff(next http.Handler) http.Handler {
	return requireKind(next, shared.IsStaffKind)
}

// RequireOwner admits owner accounts only.
func RequireOwner(next http.Handler) http.Handler {
	return requireKind(next, func(kind string) bool { return kind == shared.AccountKindOwner })
}

// RequireAdmin admits admin accounts only.
func RequireAdmin(next http.Handler) http.Handler {
	return requireKind(next, func(kind string) bool { return kind == shared.AccountKindAdmin })
}

func requireKind(next http.Handler, allowed func(string) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if !allowed(sess.AccountKind()) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
