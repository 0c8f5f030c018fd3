// Package auth はユーザー登録・ログイン・トークン発行のドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/token"
)

// ユーザー名・パスワードの長さ制約。
const (
	minUsernameLength = 2
	maxUsernameLength = 50
	minPasswordLength = 8
	maxPasswordLength = 72 // bcryptの入力上限
)

// defaultAuthority は登録ユーザーに付与される権限。
// このシステムにロール階層はなく、トークンの権限クレームは将来拡張用。
const defaultAuthority = "ROLE_USER"

// AuthService はユーザー登録・認証のサービス層。
type AuthService struct {
	users      repository.UserRepository
	codec      *token.Codec
	bcryptCost int
}

// NewAuthService はAuthServiceの新しいインスタンスを生成する。
func NewAuthService(users repository.UserRepository, codec *token.Codec, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		codec:      codec,
		bcryptCost: bcryptCost,
	}
}

// Signup は新規ユーザーを登録する。
// ユーザー名・メールアドレスの重複はそれぞれ対応するAPIErrorを返す。
// パスワードはbcryptでハッシュ化して保存する。
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateSignupInput(username, email, password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザー名の確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateUsernameError()
	}

	exists, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateEmailError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	// 存在チェック後の挿入競合は一意制約で検出され、
	// リポジトリが対応するAPIErrorに変換する。
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user registered",
		slog.Int("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login はユーザー名とパスワードを検証し、署名付きトークンを発行する。
// ユーザー不在とパスワード不一致は区別せず、同一のBadCredentialsエラーを返す。
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return "", nil, model.NewBadCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, model.NewBadCredentialsError()
	}

	tokenString, err := s.codec.Issue(user.ID, []string{defaultAuthority}, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	slog.Info("user logged in",
		slog.Int("user_id", user.ID),
	)

	return tokenString, user, nil
}

// Me は認証済みPrincipalに対応するユーザーを返す。
// 匿名の場合はUnauthorizedエラーを返す。
func (s *AuthService) Me(ctx context.Context, principal authz.Principal) (*model.User, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// validateSignupInput は登録入力のバリデーションを行う。
func validateSignupInput(username, email, password string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return model.NewValidationError(
			fmt.Sprintf("ユーザー名は%d文字以上%d文字以下で入力してください", minUsernameLength, maxUsernameLength))
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.NewValidationError("メールアドレスの形式が正しくありません")
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return model.NewValidationError(
			fmt.Sprintf("パスワードは%d文字以上%d文字以下で入力してください", minPasswordLength, maxPasswordLength))
	}
	return nil
}
