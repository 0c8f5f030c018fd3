package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/token"
)

// --- モック定義 ---

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id int) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id int) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func knownUserFinder(id int, username string) *mockUserFinder {
	return &mockUserFinder{
		findByIDFn: func(ctx context.Context, gotID int) (*model.User, error) {
			if gotID == id {
				return &model.User{ID: id, Username: username}, nil
			}
			return nil, nil
		},
	}
}

// resolveWith はミドルウェアを1リクエスト通し、ハンドラで観測されたPrincipalを返す。
func resolveWith(t *testing.T, verifier TokenVerifier, users UserFinder, authorization string) authz.Principal {
	t.Helper()

	mw := NewAuthResolver(verifier, users)

	var captured authz.Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("リゾルバはリクエストを拒否すべきでない: status = %d", w.Result().StatusCode)
	}
	return captured
}

// --- テスト ---

func TestAuthResolver_ValidToken_InjectsPrincipal(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	raw, err := codec.Issue(42, []string{"ROLE_USER"}, time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	principal := resolveWith(t, codec, knownUserFinder(42, "alice"), "Bearer "+raw)

	if principal.IsAnonymous() {
		t.Fatal("有効なトークンで匿名になった")
	}
	if principal.UserID != 42 {
		t.Errorf("UserID = %d, want 42", principal.UserID)
	}
	if principal.Username != "alice" {
		t.Errorf("Username = %q, want %q", principal.Username, "alice")
	}
	if len(principal.Authorities) != 1 || principal.Authorities[0] != "ROLE_USER" {
		t.Errorf("Authorities = %v, want [ROLE_USER]", principal.Authorities)
	}
}

func TestAuthResolver_NoHeader_Anonymous(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)

	principal := resolveWith(t, codec, knownUserFinder(42, "alice"), "")

	if !principal.IsAnonymous() {
		t.Errorf("ヘッダーなしは匿名になるべき: %+v", principal)
	}
}

func TestAuthResolver_MalformedHeader_Anonymous(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	users := knownUserFinder(42, "alice")

	tests := []struct {
		name          string
		authorization string
	}{
		{"Bearerスキームなし", "Basic dXNlcjpwYXNz"},
		{"Bearerのみでトークンなし", "Bearer "},
		{"トークンが不正な文字列", "Bearer not-a-token"},
		{"セグメント不足", "Bearer aaa.bbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := resolveWith(t, codec, users, tt.authorization)
			if !principal.IsAnonymous() {
				t.Errorf("不正ヘッダーは匿名になるべき: %+v", principal)
			}
		})
	}
}

func TestAuthResolver_BearerSchemeCaseInsensitive(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	raw, err := codec.Issue(42, nil, time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	principal := resolveWith(t, codec, knownUserFinder(42, "alice"), "bearer "+raw)

	if principal.IsAnonymous() {
		t.Error("小文字のbearerスキームも受理されるべき")
	}
}

func TestAuthResolver_BadSignature_Anonymous(t *testing.T) {
	issuer := token.NewCodec("issuer-secret", time.Hour)
	verifier := token.NewCodec("different-secret", time.Hour)
	raw, err := issuer.Issue(42, nil, time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	principal := resolveWith(t, verifier, knownUserFinder(42, "alice"), "Bearer "+raw)

	if !principal.IsAnonymous() {
		t.Errorf("署名不正トークンは匿名になるべき: %+v", principal)
	}
}

func TestAuthResolver_ExpiredToken_Anonymous(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	// 2時間前に発行されたTTL1時間のトークン
	raw, err := codec.Issue(42, nil, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	principal := resolveWith(t, codec, knownUserFinder(42, "alice"), "Bearer "+raw)

	if !principal.IsAnonymous() {
		t.Errorf("期限切れトークンは匿名になるべき: %+v", principal)
	}
}

func TestAuthResolver_DeletedUser_Anonymous(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	raw, err := codec.Issue(42, nil, time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	// トークン発行後に削除されたユーザーをシミュレート
	users := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id int) (*model.User, error) {
			return nil, nil
		},
	}

	principal := resolveWith(t, codec, users, "Bearer "+raw)

	if !principal.IsAnonymous() {
		t.Errorf("実在しないユーザーのトークンは匿名になるべき: %+v", principal)
	}
}

func TestAuthResolver_UserLookupError_Anonymous(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Hour)
	raw, err := codec.Issue(42, nil, time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	users := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id int) (*model.User, error) {
			return nil, context.DeadlineExceeded
		},
	}

	principal := resolveWith(t, codec, users, "Bearer "+raw)

	if !principal.IsAnonymous() {
		t.Errorf("ユーザー検索エラーは匿名になるべき: %+v", principal)
	}
}

func TestPrincipalFromContext_NoValue_ReturnsAnonymous(t *testing.T) {
	principal := PrincipalFromContext(context.Background())
	if !principal.IsAnonymous() {
		t.Errorf("未設定コンテキストは匿名を返すべき: %+v", principal)
	}
}

func TestContextWithPrincipal_RoundTrip(t *testing.T) {
	want := authz.Principal{UserID: 7, Username: "bob", Authorities: []string{"ROLE_USER"}}
	ctx := ContextWithPrincipal(context.Background(), want)

	got := PrincipalFromContext(ctx)
	if got.UserID != want.UserID || got.Username != want.Username {
		t.Errorf("Principal = %+v, want %+v", got, want)
	}
}
