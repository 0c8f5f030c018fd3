package board

import (
	"context"
	"testing"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// --- モック定義 ---

type mockBoardRepository struct {
	listAllFn  func(ctx context.Context) ([]*model.Board, error)
	findByIDFn func(ctx context.Context, id int) (*model.Board, error)
	createFn   func(ctx context.Context, board *model.Board) error
	updateFn   func(ctx context.Context, board *model.Board) error
	deleteFn   func(ctx context.Context, id int) (bool, error)
}

func (m *mockBoardRepository) ListAll(ctx context.Context) ([]*model.Board, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockBoardRepository) FindByID(ctx context.Context, id int) (*model.Board, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBoardRepository) Create(ctx context.Context, board *model.Board) error {
	if m.createFn != nil {
		return m.createFn(ctx, board)
	}
	board.ID = 1
	return nil
}

func (m *mockBoardRepository) Update(ctx context.Context, board *model.Board) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, board)
	}
	return nil
}

func (m *mockBoardRepository) Delete(ctx context.Context, id int) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

var authenticated = authz.Principal{UserID: 1, Username: "alice"}

func apiErrorCode(t *testing.T, err error) string {
	t.Helper()
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("APIErrorでないエラー: %v", err)
	}
	return apiErr.Code
}

// --- テスト ---

func TestList_ReturnsBoards(t *testing.T) {
	repo := &mockBoardRepository{
		listAllFn: func(ctx context.Context) ([]*model.Board, error) {
			return []*model.Board{
				{ID: 1, Name: "自由掲示板"},
				{ID: 2, Name: "質問掲示板"},
			}, nil
		},
	}
	svc := NewBoardService(repo)

	boards, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 2 {
		t.Errorf("len(boards) = %d, want 2", len(boards))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	_, err := svc.Get(context.Background(), 99)
	if code := apiErrorCode(t, err); code != "BOARD_NOT_FOUND" {
		t.Errorf("code = %q, want BOARD_NOT_FOUND", code)
	}
}

func TestCreate_Success(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	board, err := svc.Create(context.Background(), authenticated, "  自由掲示板  ", "雑談用")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Name != "自由掲示板" {
		t.Errorf("Name = %q, 前後の空白が除去されるべき", board.Name)
	}
	if board.ID == 0 {
		t.Error("採番されたIDが設定されていない")
	}
}

func TestCreate_Anonymous_Unauthorized(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	_, err := svc.Create(context.Background(), authz.Anonymous(), "掲示板", "")
	if code := apiErrorCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestCreate_EmptyName_ValidationFailed(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	_, err := svc.Create(context.Background(), authenticated, "   ", "")
	if code := apiErrorCode(t, err); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestUpdate_Success(t *testing.T) {
	var updated *model.Board
	repo := &mockBoardRepository{
		findByIDFn: func(ctx context.Context, id int) (*model.Board, error) {
			return &model.Board{ID: id, Name: "旧名", Description: "旧説明"}, nil
		},
		updateFn: func(ctx context.Context, board *model.Board) error {
			updated = board
			return nil
		},
	}
	svc := NewBoardService(repo)

	board, err := svc.Update(context.Background(), authenticated, 1, "新名", "新説明")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Name != "新名" || board.Description != "新説明" {
		t.Errorf("board = %+v, 更新が反映されていない", board)
	}
	if updated == nil {
		t.Error("リポジトリのUpdateが呼ばれていない")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	_, err := svc.Update(context.Background(), authenticated, 99, "名前", "")
	if code := apiErrorCode(t, err); code != "BOARD_NOT_FOUND" {
		t.Errorf("code = %q, want BOARD_NOT_FOUND", code)
	}
}

func TestUpdate_Anonymous_Unauthorized(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	_, err := svc.Update(context.Background(), authz.Anonymous(), 1, "名前", "")
	if code := apiErrorCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestDelete_Success(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	if err := svc.Delete(context.Background(), authenticated, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockBoardRepository{
		deleteFn: func(ctx context.Context, id int) (bool, error) {
			return false, nil
		},
	}
	svc := NewBoardService(repo)

	err := svc.Delete(context.Background(), authenticated, 99)
	if code := apiErrorCode(t, err); code != "BOARD_NOT_FOUND" {
		t.Errorf("code = %q, want BOARD_NOT_FOUND", code)
	}
}

func TestDelete_Anonymous_Unauthorized(t *testing.T) {
	svc := NewBoardService(&mockBoardRepository{})

	err := svc.Delete(context.Background(), authz.Anonymous(), 1)
	if code := apiErrorCode(t, err); code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", code)
	}
}
