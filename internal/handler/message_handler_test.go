package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// mockMessageService はMessageServiceInterfaceのモック実装。
type mockMessageService struct {
	sendFn   func(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error)
	inboxFn  func(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error)
	sentFn   func(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error)
	getFn    func(ctx context.Context, principal authz.Principal, id int) (*repository.MessageWithUsers, error)
	deleteFn func(ctx context.Context, principal authz.Principal, id int) error
}

func (m *mockMessageService) Send(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, principal, receiverID, content)
	}
	return nil, nil
}

func (m *mockMessageService) Inbox(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
	if m.inboxFn != nil {
		return m.inboxFn(ctx, principal)
	}
	return nil, nil
}

func (m *mockMessageService) Sent(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
	if m.sentFn != nil {
		return m.sentFn(ctx, principal)
	}
	return nil, nil
}

func (m *mockMessageService) Get(ctx context.Context, principal authz.Principal, id int) (*repository.MessageWithUsers, error) {
	if m.getFn != nil {
		return m.getFn(ctx, principal, id)
	}
	return nil, nil
}

func (m *mockMessageService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, principal, id)
	}
	return nil
}

func TestMessageHandler_Inbox_Success(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockMessageService{
		inboxFn: func(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
			if principal.UserID != 2 {
				t.Errorf("principal.UserID = %d, want 2", principal.UserID)
			}
			return []repository.MessageWithUsers{
				{
					Message:          model.Message{ID: 1, SenderID: 1, ReceiverID: 2, Content: "こんにちは", CreatedAt: now},
					SenderUsername:   "alice",
					ReceiverUsername: "bob",
				},
			}, nil
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/inbox", nil)
	req = withPrincipal(req, testPrincipal(2))
	w := httptest.NewRecorder()

	h.Inbox(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("messages length = %d, want 1", len(resp))
	}
	if resp[0]["sender_username"] != "alice" {
		t.Errorf("sender_username = %v, want alice", resp[0]["sender_username"])
	}
	if resp[0]["receiver_username"] != "bob" {
		t.Errorf("receiver_username = %v, want bob", resp[0]["receiver_username"])
	}
}

func TestMessageHandler_Inbox_Empty(t *testing.T) {
	svc := &mockMessageService{
		inboxFn: func(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
			return nil, nil
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/inbox", nil)
	req = withPrincipal(req, testPrincipal(2))
	w := httptest.NewRecorder()

	h.Inbox(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	// nilスライスでも空のJSON配列を返す
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestMessageHandler_Sent_Anonymous(t *testing.T) {
	svc := &mockMessageService{
		sentFn: func(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
			return nil, model.NewUnauthorizedError()
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/sent", nil)
	w := httptest.NewRecorder()

	h.Sent(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMessageHandler_Send_Success(t *testing.T) {
	svc := &mockMessageService{
		sendFn: func(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error) {
			if receiverID != 2 {
				t.Errorf("receiverID = %d, want 2", receiverID)
			}
			if content != "こんにちは" {
				t.Errorf("content = %q", content)
			}
			return &model.Message{ID: 5, SenderID: principal.UserID, ReceiverID: receiverID, Content: content}, nil
		},
	}
	h := NewMessageHandler(svc)

	body := `{"content":"こんにちは"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages/2", strings.NewReader(body))
	req = withChiURLParam(req, "id", "2")
	req = withPrincipal(req, testPrincipal(1))
	w := httptest.NewRecorder()

	h.Send(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestMessageHandler_Send_ReceiverNotFound(t *testing.T) {
	svc := &mockMessageService{
		sendFn: func(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error) {
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewMessageHandler(svc)

	body := `{"content":"こんにちは"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages/999", strings.NewReader(body))
	req = withChiURLParam(req, "id", "999")
	req = withPrincipal(req, testPrincipal(1))
	w := httptest.NewRecorder()

	h.Send(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestMessageHandler_Get_Forbidden(t *testing.T) {
	svc := &mockMessageService{
		getFn: func(ctx context.Context, principal authz.Principal, id int) (*repository.MessageWithUsers, error) {
			return nil, model.NewForbiddenError()
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/5", nil)
	req = withChiURLParam(req, "id", "5")
	req = withPrincipal(req, testPrincipal(3))
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestMessageHandler_Delete_Success(t *testing.T) {
	svc := &mockMessageService{
		deleteFn: func(ctx context.Context, principal authz.Principal, id int) error {
			if id != 5 {
				t.Errorf("id = %d, want 5", id)
			}
			return nil
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/messages/5", nil)
	req = withChiURLParam(req, "id", "5")
	req = withPrincipal(req, testPrincipal(2))
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestMessageHandler_Delete_SenderForbidden(t *testing.T) {
	svc := &mockMessageService{
		deleteFn: func(ctx context.Context, principal authz.Principal, id int) error {
			return authz.ErrForbidden
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/messages/5", nil)
	req = withChiURLParam(req, "id", "5")
	req = withPrincipal(req, testPrincipal(1))
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
