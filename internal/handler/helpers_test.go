package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
)

// --- テストヘルパー ---

// withPrincipal はリクエストのコンテキストに認証済みPrincipalを設定するヘルパー。
func withPrincipal(r *http.Request, p authz.Principal) *http.Request {
	return r.WithContext(middleware.ContextWithPrincipal(r.Context(), p))
}

// withChiURLParam はchiのURLパラメータを設定したリクエストを返すヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディから統一エラーフォーマットをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}

// testPrincipal はテスト用の認証済みPrincipalを返す。
func testPrincipal(userID int) authz.Principal {
	return authz.Principal{
		UserID:      userID,
		Username:    "testuser",
		Authorities: []string{"ROLE_USER"},
	}
}
