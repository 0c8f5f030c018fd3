package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// mockBoardService はBoardServiceInterfaceのモック実装。
type mockBoardService struct {
	listFn   func(ctx context.Context) ([]*model.Board, error)
	getFn    func(ctx context.Context, id int) (*model.Board, error)
	createFn func(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error)
	updateFn func(ctx context.Context, principal authz.Principal, id int, name, description string) (*model.Board, error)
	deleteFn func(ctx context.Context, principal authz.Principal, id int) error
}

func (m *mockBoardService) List(ctx context.Context) ([]*model.Board, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockBoardService) Get(ctx context.Context, id int) (*model.Board, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBoardService) Create(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error) {
	if m.createFn != nil {
		return m.createFn(ctx, principal, name, description)
	}
	return nil, nil
}

func (m *mockBoardService) Update(ctx context.Context, principal authz.Principal, id int, name, description string) (*model.Board, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, principal, id, name, description)
	}
	return nil, nil
}

func (m *mockBoardService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, principal, id)
	}
	return nil
}

func TestBoardHandler_List_Success(t *testing.T) {
	svc := &mockBoardService{
		listFn: func(ctx context.Context) ([]*model.Board, error) {
			return []*model.Board{
				{ID: 1, Name: "自由掲示板", Description: "雑談用"},
				{ID: 2, Name: "質問掲示板", Description: "技術質問用"},
			}, nil
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("boards length = %d, want 2", len(resp))
	}
}

func TestBoardHandler_List_Empty(t *testing.T) {
	h := NewBoardHandler(&mockBoardService{})

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	w := httptest.NewRecorder()

	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestBoardHandler_Get_NotFound(t *testing.T) {
	svc := &mockBoardService{
		getFn: func(ctx context.Context, id int) (*model.Board, error) {
			return nil, model.NewBoardNotFoundError(id)
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/boards/999", nil)
	req = withChiURLParam(req, "boardId", "999")
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestBoardHandler_Create_Success(t *testing.T) {
	svc := &mockBoardService{
		createFn: func(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error) {
			if name != "新掲示板" {
				t.Errorf("name = %q", name)
			}
			return &model.Board{ID: 3, Name: name, Description: description}, nil
		},
	}
	h := NewBoardHandler(svc)

	body := `{"name":"新掲示板","description":"説明"}`
	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(body))
	req = withPrincipal(req, testPrincipal(42))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestBoardHandler_Create_Anonymous(t *testing.T) {
	svc := &mockBoardService{
		createFn: func(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error) {
			return nil, model.NewUnauthorizedError()
		},
	}
	h := NewBoardHandler(svc)

	body := `{"name":"新掲示板","description":"説明"}`
	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestBoardHandler_Delete_Success(t *testing.T) {
	svc := &mockBoardService{
		deleteFn: func(ctx context.Context, principal authz.Principal, id int) error {
			if id != 3 {
				t.Errorf("id = %d, want 3", id)
			}
			return nil
		},
	}
	h := NewBoardHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/boards/3", nil)
	req = withChiURLParam(req, "boardId", "3")
	req = withPrincipal(req, testPrincipal(42))
	w := httptest.NewRecorder()

	h.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}
