package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware_GeneratesUUID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var captured string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("リクエストIDが生成されていない")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("生成されたIDがUUIDでない: %q", captured)
	}
	if got := w.Header().Get("X-Request-ID"); got != captured {
		t.Errorf("レスポンスヘッダー = %q, コンテキスト = %q で不一致", got, captured)
	}
}

func TestRequestIDMiddleware_PropagatesClientID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var captured string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured != "client-supplied-id" {
		t.Errorf("requestID = %q, want %q", captured, "client-supplied-id")
	}
}

func TestRequestIDFromContext_NoValue_ReturnsEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("未設定コンテキストで %q が返った, want \"\"", got)
	}
}
