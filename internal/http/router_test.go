package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/internal/auth"
	"store-backend/internal/handlers"
	"store-backend/internal/health"
	"store-backend/internal/middleware"
	"store-backend/internal/models"
)

func testRouter(t *testing.T) (http.Handler, *auth.JWTManager) {
	t.Helper()
	jwtManager := auth.NewJWTManager("router-secret", "store-backend", 1)
	h := Handlers{
		Auth:        handlers.NewAuthHandler(nil),
		Indent:      handlers.NewIndentHandler(nil),
		StoreIndent: handlers.NewStoreIndentHandler(nil, nil, nil),
		PO:          handlers.NewPOHandler(nil, nil),
		Stock:       handlers.NewStockHandler(nil),
		Item:        handlers.NewItemHandler(nil),
		Health:      handlers.NewHealthHandler(health.NewHealthChecker()),
	}
	return NewRouter(h, middleware.NewAuthMiddleware(jwtManager)), jwtManager
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{"/health", "/api/health", "/health/ready", "/api/health/pg"} {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/metrics", "").Code)

	rec := do(r, http.MethodGet, "/no/such/route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, rec.Body.String())
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	r, jwtManager := testRouter(t)

	for _, path := range []string{
		"/po/pending", "/api/po/history/download",
		"/store-indent/pending", "/api/store-indent/dashboard",
		"/items", "/api/items/categories",
	} {
		assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, path, "").Code, path)
	}

	token, err := jwtManager.GenerateToken(&models.User{ID: 2, UserName: "clerk", Role: "user"})
	require.NoError(t, err)
	rec := do(r, http.MethodPost, "/api/store-indent/cache/invalidate", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
