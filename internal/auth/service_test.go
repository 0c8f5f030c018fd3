package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/token"
)

// --- モック定義 ---

type mockUserRepository struct {
	findByIDFn         func(ctx context.Context, id int) (*model.User, error)
	findByUsernameFn   func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	createFn           func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func newTestService(repo *mockUserRepository) *AuthService {
	codec := token.NewCodec("test-secret", time.Hour)
	return NewAuthService(repo, codec, bcrypt.MinCost)
}

func apiErrorCode(t *testing.T, err error) string {
	t.Helper()
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("APIErrorでないエラー: %v", err)
	}
	return apiErr.Code
}

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 10
			created = user
			return nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.ID != 10 {
		t.Errorf("ID = %d, want 10", user.ID)
	}
	if created.PasswordHash == "password123" {
		t.Error("パスワードが平文のまま保存されている")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("保存されたハッシュが元のパスワードと照合できない: %v", err)
	}
}

func TestSignup_TrimsWhitespace(t *testing.T) {
	repo := &mockUserRepository{}
	svc := newTestService(repo)

	user, err := svc.Signup(context.Background(), "  alice  ", " alice@example.com ", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "alice@example.com")
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password123")
	if code := apiErrorCode(t, err); code != "DUPLICATE_USERNAME" {
		t.Errorf("code = %q, want DUPLICATE_USERNAME", code)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), "alice", "alice@example.com", "password123")
	if code := apiErrorCode(t, err); code != "DUPLICATE_EMAIL" {
		t.Errorf("code = %q, want DUPLICATE_EMAIL", code)
	}
}

func TestSignup_ValidationFailures(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"ユーザー名が短すぎる", "a", "a@example.com", "password123"},
		{"ユーザー名が長すぎる", strings.Repeat("a", 51), "a@example.com", "password123"},
		{"メールアドレスが空", "alice", "", "password123"},
		{"メールアドレスに@がない", "alice", "not-an-email", "password123"},
		{"パスワードが短すぎる", "alice", "a@example.com", "short"},
		{"パスワードが長すぎる", "alice", "a@example.com", strings.Repeat("p", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.username, tt.email, tt.password)
			if code := apiErrorCode(t, err); code != "VALIDATION_FAILED" {
				t.Errorf("code = %q, want VALIDATION_FAILED", code)
			}
		})
	}
}

// --- Login ---

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("ハッシュ化に失敗: %v", err)
	}
	return string(hash)
}

func TestLogin_Success_IssuesVerifiableToken(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 42, Username: "alice", PasswordHash: hashPassword(t, "password123")}, nil
		},
	}
	codec := token.NewCodec("test-secret", time.Hour)
	svc := NewAuthService(repo, codec, bcrypt.MinCost)

	tokenString, user, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 42 {
		t.Errorf("user.ID = %d, want 42", user.ID)
	}

	// 発行されたトークンが同じコーデックで検証可能であること
	claims, err := codec.Verify(tokenString, time.Now())
	if err != nil {
		t.Fatalf("発行されたトークンの検証に失敗: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if len(claims.Authorities) != 1 || claims.Authorities[0] != "ROLE_USER" {
		t.Errorf("claims.Authorities = %v, want [ROLE_USER]", claims.Authorities)
	}
}

func TestLogin_UnknownUser_BadCredentials(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, _, err := svc.Login(context.Background(), "nobody", "password123")
	if code := apiErrorCode(t, err); code != "BAD_CREDENTIALS" {
		t.Errorf("code = %q, want BAD_CREDENTIALS", code)
	}
}

func TestLogin_WrongPassword_BadCredentials(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 42, Username: "alice", PasswordHash: hashPassword(t, "correct-password")}, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.Login(context.Background(), "alice", "wrong-password")
	if code := apiErrorCode(t, err); code != "BAD_CREDENTIALS" {
		t.Errorf("code = %q, want BAD_CREDENTIALS", code)
	}
}

func TestLogin_ErrorsAreIndistinguishable(t *testing.T) {
	// ユーザー不在とパスワード不一致で同一のエラーメッセージを返すこと
	unknownSvc := newTestService(&mockUserRepository{})
	_, _, errUnknown := unknownSvc.Login(context.Background(), "nobody", "password123")

	wrongPassSvc := newTestService(&mockUserRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, PasswordHash: hashPassword(t, "other")}, nil
		},
	})
	_, _, errWrongPass := wrongPassSvc.Login(context.Background(), "alice", "password123")

	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("エラーメッセージが区別可能: %q vs %q", errUnknown.Error(), errWrongPass.Error())
	}
}

// --- Me ---

func TestMe_Authenticated_ReturnsUser(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id int) (*model.User, error) {
			if id == 42 {
				return &model.User{ID: 42, Username: "alice"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Me(context.Background(), authz.Principal{UserID: 42, Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want alice", user.Username)
	}
}

func TestMe_Anonymous_Unauthorized(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Me(context.Background(), authz.Anonymous())
	if code := apiErrorCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestMe_DeletedUser_NotFound(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.Me(context.Background(), authz.Principal{UserID: 99})
	if code := apiErrorCode(t, err); code != "USER_NOT_FOUND" {
		t.Errorf("code = %q, want USER_NOT_FOUND", code)
	}
}
