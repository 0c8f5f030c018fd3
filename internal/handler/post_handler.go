package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/post"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// PostServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	List(ctx context.Context, q post.ListQuery) (*post.Page, error)
	Get(ctx context.Context, principal authz.Principal, id int) (*post.PostDetail, error)
	Create(ctx context.Context, principal authz.Principal, boardID int, title, content, category string) (*model.Post, error)
	Update(ctx context.Context, principal authz.Principal, id int, title, content, category string) (*model.Post, error)
	Delete(ctx context.Context, principal authz.Principal, id int) error
}

// PostHandler は投稿管理のHTTPハンドラー。
type PostHandler struct {
	service PostServiceInterface
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface) *PostHandler {
	return &PostHandler{service: service}
}

// createPostRequest は投稿作成リクエストのボディ。
type createPostRequest struct {
	BoardID  int    `json:"board_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// updatePostRequest は投稿更新リクエストのボディ。
type updatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// postResponse は投稿のAPIレスポンス。
type postResponse struct {
	ID         int    `json:"id"`
	BoardID    int    `json:"board_id"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	ViewCount  int    `json:"view_count"`
	LikeCount  int    `json:"like_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// postDetailResponse は投稿詳細のAPIレスポンス。いいね状態を含む。
type postDetailResponse struct {
	postResponse
	IsLiked bool `json:"is_liked"`
}

// pageResponse は一覧のページネーションレスポンス。
type pageResponse struct {
	Content       []postResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int            `json:"totalElements"`
	IsLast        bool           `json:"isLast"`
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  string(p.Category),
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPostWithMetaResponse(p *repository.PostWithMeta) postResponse {
	resp := toPostResponse(&p.Post)
	resp.AuthorName = p.AuthorName
	resp.LikeCount = p.LikeCount
	return resp
}

// List は投稿一覧をページネーションして返す。
// GET /api/posts?boardId=&search=&category=&page=&size=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	boardID, err := strconv.Atoi(query.Get("boardId"))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("boardIdは数値で指定してください"))
		return
	}

	q := post.ListQuery{
		BoardID:  boardID,
		Search:   query.Get("search"),
		Category: query.Get("category"),
	}
	// page/sizeの省略・不正値はサービス層のデフォルトに委ねる
	q.Page, _ = strconv.Atoi(query.Get("page"))
	if size := query.Get("size"); size != "" {
		q.Size, _ = strconv.Atoi(size)
	}

	result, err := h.service.List(r.Context(), q)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	content := make([]postResponse, 0, len(result.Content))
	for i := range result.Content {
		content = append(content, toPostWithMetaResponse(&result.Content[i]))
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Content:       content,
		Page:          result.Page,
		Size:          result.Size,
		TotalPages:    result.TotalPages,
		TotalElements: result.TotalElements,
		IsLast:        result.IsLast,
	})
}

// Get は投稿詳細を返す。閲覧数が1増加する。
// GET /api/posts/{postId}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "postId")
	if !ok {
		writeInvalidIDResponse(w, "postId")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	detail, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postDetailResponse{
		postResponse: toPostWithMetaResponse(&detail.PostWithMeta),
		IsLiked:      detail.IsLiked,
	})
}

// Create は投稿を作成する。
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	created, err := h.service.Create(r.Context(), principal, req.BoardID, req.Title, req.Content, req.Category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(created))
}

// Update は投稿を更新する。作成者本人のみ。
// PUT /api/posts/{postId}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "postId")
	if !ok {
		writeInvalidIDResponse(w, "postId")
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	updated, err := h.service.Update(r.Context(), principal, id, req.Title, req.Content, req.Category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(updated))
}

// Delete は投稿を削除する。作成者本人のみ。
// DELETE /api/posts/{postId}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "postId")
	if !ok {
		writeInvalidIDResponse(w, "postId")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
