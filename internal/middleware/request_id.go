package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader はリクエストIDを伝搬するHTTPヘッダー名。
const requestIDHeader = "X-Request-ID"

// requestIDContextKey はリクエストコンテキストにリクエストIDを格納するためのキー。
var requestIDContextKey = contextKey("request_id")

// NewRequestIDMiddleware は各リクエストに一意のIDを割り当てるミドルウェアを返す。
// クライアントがX-Request-IDヘッダーを送信した場合はその値を引き継ぎ、
// なければUUIDv4を生成する。IDはコンテキストとレスポンスヘッダーの両方に設定される。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はリクエストコンテキストからリクエストIDを取得する。
// 未設定の場合は空文字列を返す。
func RequestIDFromContext(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDContextKey).(string)
	if !ok {
		return ""
	}
	return requestID
}
