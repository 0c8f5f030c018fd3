package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	ListByPost(ctx context.Context, postID int) ([]repository.CommentWithMeta, error)
	Create(ctx context.Context, principal authz.Principal, postID int, content string, parentCommentID *int) (*model.Comment, error)
	Update(ctx context.Context, principal authz.Principal, id int, content string) (*model.Comment, error)
	Delete(ctx context.Context, principal authz.Principal, id int) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント作成リクエストのボディ。
type createCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`
}

// updateCommentRequest はコメント更新リクエストのボディ。
type updateCommentRequest struct {
	Content string `json:"content"`
}

// commentResponse はコメントのAPIレスポンス。
type commentResponse struct {
	ID              int    `json:"id"`
	PostID          int    `json:"post_id"`
	AuthorID        int    `json:"author_id"`
	AuthorName      string `json:"author_name,omitempty"`
	Content         string `json:"content"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`
	LikeCount       int    `json:"like_count"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:              c.ID,
		PostID:          c.PostID,
		AuthorID:        c.AuthorID,
		Content:         c.Content,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}

func toCommentWithMetaResponse(c *repository.CommentWithMeta) commentResponse {
	resp := toCommentResponse(&c.Comment)
	resp.AuthorName = c.AuthorName
	resp.LikeCount = c.LikeCount
	return resp
}

// ListByPost は投稿のコメント一覧を返す。
// GET /api/posts/{postId}/comments
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlParamInt(r, "postId")
	if !ok {
		writeInvalidIDResponse(w, "postId")
		return
	}

	comments, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentWithMetaResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Create は投稿にコメントを作成する。
// POST /api/comments/{postId}
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlParamInt(r, "postId")
	if !ok {
		writeInvalidIDResponse(w, "postId")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	created, err := h.service.Create(r.Context(), principal, postID, req.Content, req.ParentCommentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(created))
}

// Update はコメントを更新する。作成者本人のみ。
// PUT /api/comments/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := urlParamInt(r, "commentId")
	if !ok {
		writeInvalidIDResponse(w, "commentId")
		return
	}

	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	updated, err := h.service.Update(r.Context(), principal, commentID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommentResponse(updated))
}

// Delete はコメントを削除する。作成者本人のみ。
// DELETE /api/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := urlParamInt(r, "commentId")
	if !ok {
		writeInvalidIDResponse(w, "commentId")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
