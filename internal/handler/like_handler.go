package handler

import (
	"context"
	"net/http"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/like"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// LikeServiceInterface はいいねハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	Toggle(ctx context.Context, principal authz.Principal, targetType string, targetID int) (*like.Status, error)
	GetStatus(ctx context.Context, principal authz.Principal, targetType string, targetID int) (*like.Status, error)
}

// LikeHandler はいいね管理のHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface) *LikeHandler {
	return &LikeHandler{service: service}
}

// likeStatusResponse はいいね状態のAPIレスポンス。
type likeStatusResponse struct {
	IsLiked   bool `json:"is_liked"`
	LikeCount int  `json:"like_count"`
}

// GetStatus は対象のいいね状態を返す。
// 匿名リクエストのis_likedは常にfalse。
// GET /api/likes/{targetId}?targetType=POST|COMMENT
func (h *LikeHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	targetID, ok := urlParamInt(r, "targetId")
	if !ok {
		writeInvalidIDResponse(w, "targetId")
		return
	}

	targetType := r.URL.Query().Get("targetType")
	if targetType == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("targetTypeを指定してください"))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	status, err := h.service.GetStatus(r.Context(), principal, targetType, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeStatusResponse{
		IsLiked:   status.IsLiked,
		LikeCount: status.LikeCount,
	})
}

// TogglePost は投稿へのいいねをトグルする。
// POST /api/likes/{targetId}/posts
func (h *LikeHandler) TogglePost(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, string(model.LikeTargetPost))
}

// ToggleComment はコメントへのいいねをトグルする。
// POST /api/likes/{targetId}/comments
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, string(model.LikeTargetComment))
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, targetType string) {
	targetID, ok := urlParamInt(r, "targetId")
	if !ok {
		writeInvalidIDResponse(w, "targetId")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	status, err := h.service.Toggle(r.Context(), principal, targetType, targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeStatusResponse{
		IsLiked:   status.IsLiked,
		LikeCount: status.LikeCount,
	})
}
