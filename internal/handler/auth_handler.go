package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は新規ユーザーを登録する。
	Signup(ctx context.Context, username, email, password string) (*model.User, error)
	// Login は認証してトークンを発行する。
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	// Me は認証済みPrincipalのユーザー情報を返す。
	Me(ctx context.Context, principal authz.Principal) (*model.User, error)
}

// AuthHandler はユーザー登録・認証のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	tokenTTL time.Duration
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:  service,
		tokenTTL: tokenTTL,
	}
}

// signupRequest はユーザー登録リクエストのボディ。
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// loginResponse はログイン成功のAPIレスポンス。
type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // 秒
	User      userResponse `json:"user"`
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// Signup はユーザー登録を処理する。
// POST /api/users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	user, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login はログインを処理する。
// POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int(h.tokenTTL.Seconds()),
		User:      toUserResponse(user),
	})
}

// Me は認証済みユーザーの情報を返す。
// GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	user, err := h.service.Me(r.Context(), principal)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
