package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// BoardServiceInterface は掲示板ハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	List(ctx context.Context) ([]*model.Board, error)
	Get(ctx context.Context, id int) (*model.Board, error)
	Create(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error)
	Update(ctx context.Context, principal authz.Principal, id int, name, description string) (*model.Board, error)
	Delete(ctx context.Context, principal authz.Principal, id int) error
}

// BoardHandler は掲示板管理のHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// boardRequest は掲示板作成・更新リクエストのボディ。
type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// boardResponse は掲示板情報のAPIレスポンス。
type boardResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toBoardResponse(board *model.Board) boardResponse {
	return boardResponse{
		ID:          board.ID,
		Name:        board.Name,
		Description: board.Description,
	}
}

// List は掲示板一覧を返す。
// GET /api/boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]boardResponse, 0, len(boards))
	for _, board := range boards {
		responses = append(responses, toBoardResponse(board))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Get は掲示板詳細を返す。
// GET /api/boards/{boardId}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "boardId")
	if !ok {
		writeInvalidIDResponse(w, "boardId")
		return
	}

	board, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

// Create は掲示板を作成する。
// POST /api/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	board, err := h.service.Create(r.Context(), principal, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBoardResponse(board))
}

// Update は掲示板を更新する。
// PUT /api/boards/{boardId}
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "boardId")
	if !ok {
		writeInvalidIDResponse(w, "boardId")
		return
	}

	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	board, err := h.service.Update(r.Context(), principal, id, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBoardResponse(board))
}

// Delete は掲示板を削除する。
// DELETE /api/boards/{boardId}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "boardId")
	if !ok {
		writeInvalidIDResponse(w, "boardId")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
