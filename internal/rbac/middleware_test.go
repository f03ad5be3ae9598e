package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

func requestWithSession(userID, kind string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess := &shared.Session{}
	if userID != "" {
		sess.SetUser(userID, kind)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireDeniesAnonymous(t *testing.T) {
	eval, _ := newTestEvaluator(t)
	mw := Middleware{Evaluator: eval, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mw.Require(ResourceBookings, OpView)(okHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAllowsGrantedAgent(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "Reception",
		Permissions: Matrix{ResourceBookings: {OpView: true}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	mw := Middleware{Evaluator: eval, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	mw.Require(ResourceBookings, OpView)(okHandler()).ServeHTTP(rec, requestWithSession("u1", shared.AccountKindAgent))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mw.Require(ResourceBookings, OpDelete)(okHandler()).ServeHTTP(rec, requestWithSession("u1", shared.AccountKindAgent))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminBypassesMatrix(t *testing.T) {
	eval, _ := newTestEvaluator(t)
	mw := Middleware{Evaluator: eval, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	mw.Require(ResourceUsers, OpDelete)(okHandler()).ServeHTTP(rec, requestWithSession("admin-1", shared.AccountKindAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyGatesIndex(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "ReportsOnly",
		Permissions: Matrix{ResourceReports: {OpExport: true}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	mw := Middleware{Evaluator: eval, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	mw.RequireAny(ResourceReports)(okHandler()).ServeHTTP(rec, requestWithSession("u1", shared.AccountKindAgent))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mw.RequireAny(ResourceBookings)(okHandler()).ServeHTTP(rec, requestWithSession("u1", shared.AccountKindAgent))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
