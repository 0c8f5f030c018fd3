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

// MessageServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	Send(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error)
	Inbox(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error)
	Sent(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error)
	Get(ctx context.Context, principal authz.Principal, id int) (*repository.MessageWithUsers, error)
	Delete(ctx context.Context, principal authz.Principal, id int) error
}

// MessageHandler はダイレクトメッセージのHTTPハンドラー。
type MessageHandler struct {
	service MessageServiceInterface
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service MessageServiceInterface) *MessageHandler {
	return &MessageHandler{service: service}
}

// sendMessageRequest はメッセージ送信リクエストのボディ。
type sendMessageRequest struct {
	Content string `json:"content"`
}

// messageResponse はメッセージのAPIレスポンス。
type messageResponse struct {
	ID               int    `json:"id"`
	SenderID         int    `json:"sender_id"`
	SenderUsername   string `json:"sender_username,omitempty"`
	ReceiverID       int    `json:"receiver_id"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
	Content          string `json:"content"`
	CreatedAt        string `json:"created_at"`
}

func toMessageResponse(m *model.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageWithUsersResponse(m *repository.MessageWithUsers) messageResponse {
	resp := toMessageResponse(&m.Message)
	resp.SenderUsername = m.SenderUsername
	resp.ReceiverUsername = m.ReceiverUsername
	return resp
}

// Inbox は受信箱のメッセージ一覧を返す。
// GET /api/messages/inbox
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	messages, err := h.service.Inbox(r.Context(), principal)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageListResponse(messages))
}

// Sent は送信済みメッセージ一覧を返す。
// GET /api/messages/sent
func (h *MessageHandler) Sent(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	messages, err := h.service.Sent(r.Context(), principal)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageListResponse(messages))
}

func toMessageListResponse(messages []repository.MessageWithUsers) []messageResponse {
	responses := make([]messageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toMessageWithUsersResponse(&messages[i]))
	}
	return responses
}

// Get はメッセージ詳細を返す。送信者または受信者のみ。
// GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	messageID, ok := urlParamInt(r, "id")
	if !ok {
		writeInvalidIDResponse(w, "id")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	message, err := h.service.Get(r.Context(), principal, messageID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageWithUsersResponse(message))
}

// Send は指定ユーザーにメッセージを送信する。
// POST /api/messages/{id}（受信者のユーザーID）
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	receiverID, ok := urlParamInt(r, "id")
	if !ok {
		writeInvalidIDResponse(w, "id")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	sent, err := h.service.Send(r.Context(), principal, receiverID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(sent))
}

// Delete はメッセージを削除する。受信者のみ。
// DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	messageID, ok := urlParamInt(r, "id")
	if !ok {
		writeInvalidIDResponse(w, "id")
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, messageID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
