// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/token"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストにPrincipalを格納するためのキー。
var principalContextKey = contextKey("principal")

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (*token.Claims, error)
}

// UserFinder はトークン検証後のユーザー実在確認に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// NewAuthResolver はAuthorizationヘッダーのベアラートークンを解決し、
// Principalをリクエストコンテキストに注入するミドルウェアを返す。
//
// このミドルウェアはリクエストを拒否しない。ヘッダー欠如・形式不正・
// 署名不正・期限切れ・ユーザー不在のすべてのケースで匿名Principalに
// 縮退させ、後続処理に委ねる。要認証エンドポイントでの401判定は
// サービス層の認可ガードが行う。
func NewAuthResolver(verifier TokenVerifier, users UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := resolvePrincipal(r, verifier, users)
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolvePrincipal はリクエストからPrincipalを導出する。
// 失敗はすべて匿名への縮退であり、エラーを返さない。
func resolvePrincipal(r *http.Request, verifier TokenVerifier, users UserFinder) authz.Principal {
	raw, ok := bearerToken(r)
	if !ok {
		return authz.Anonymous()
	}

	claims, err := verifier.Verify(raw, time.Now())
	if err != nil {
		// 不正トークンは匿名扱い。運用調査のためログにのみ残す。
		slog.Debug("token verification failed",
			slog.String("error", err.Error()),
		)
		return authz.Anonymous()
	}

	user, err := users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to find token subject",
			slog.Int("user_id", claims.UserID),
			slog.String("error", err.Error()),
		)
		return authz.Anonymous()
	}
	if user == nil {
		// トークン発行後に削除されたユーザー
		return authz.Anonymous()
	}

	return authz.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Authorities: claims.Authorities,
	}
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// スキーム名の大文字小文字は区別しない。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(prefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}

// PrincipalFromContext はリクエストコンテキストからPrincipalを取得する。
// AuthResolverを通過していないコンテキストでは匿名Principalを返す。
func PrincipalFromContext(ctx context.Context) authz.Principal {
	p, ok := ctx.Value(principalContextKey).(authz.Principal)
	if !ok {
		return authz.Anonymous()
	}
	return p
}

// ContextWithPrincipal はコンテキストにPrincipalを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, p authz.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}
