// Package board は掲示板管理のドメインロジックを提供する。
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// maxBoardNameLength は掲示板名の最大長。
const maxBoardNameLength = 100

// BoardService は掲示板管理のサービス層。
// 掲示板に所有者は存在せず、作成・更新・削除は認証済みユーザーなら誰でも行える。
type BoardService struct {
	boards repository.BoardRepository
}

// NewBoardService はBoardServiceの新しいインスタンスを生成する。
func NewBoardService(boards repository.BoardRepository) *BoardService {
	return &BoardService{boards: boards}
}

// List は全掲示板を返す。
func (s *BoardService) List(ctx context.Context) ([]*model.Board, error) {
	boards, err := s.boards.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("掲示板一覧の取得に失敗しました: %w", err)
	}
	return boards, nil
}

// Get は指定IDの掲示板を返す。
func (s *BoardService) Get(ctx context.Context, id int) (*model.Board, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("掲示板の取得に失敗しました: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(id)
	}
	return board, nil
}

// Create は新しい掲示板を作成する。認証必須。
func (s *BoardService) Create(ctx context.Context, principal authz.Principal, name, description string) (*model.Board, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	name = strings.TrimSpace(name)
	if err := validateBoardName(name); err != nil {
		return nil, err
	}

	board := &model.Board{
		Name:        name,
		Description: description,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("掲示板の作成に失敗しました: %w", err)
	}

	slog.Info("board created",
		slog.Int("board_id", board.ID),
		slog.Int("user_id", principal.UserID),
	)

	return board, nil
}

// Update は掲示板の名前と説明を更新する。認証必須。
func (s *BoardService) Update(ctx context.Context, principal authz.Principal, id int, name, description string) (*model.Board, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	name = strings.TrimSpace(name)
	if err := validateBoardName(name); err != nil {
		return nil, err
	}

	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("掲示板の取得に失敗しました: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(id)
	}

	board.Name = name
	board.Description = description
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}

	return board, nil
}

// Delete は掲示板を削除する。認証必須。
// 紐づく投稿・コメント・いいねは外部キーのカスケードで削除される。
func (s *BoardService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	if principal.IsAnonymous() {
		return model.NewUnauthorizedError()
	}

	deleted, err := s.boards.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("掲示板の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewBoardNotFoundError(id)
	}

	slog.Info("board deleted",
		slog.Int("board_id", id),
		slog.Int("user_id", principal.UserID),
	)

	return nil
}

// validateBoardName は掲示板名のバリデーションを行う。
func validateBoardName(name string) error {
	if name == "" {
		return model.NewValidationError("掲示板名を入力してください")
	}
	if len(name) > maxBoardNameLength {
		return model.NewValidationError(fmt.Sprintf("掲示板名は%d文字以下で入力してください", maxBoardNameLength))
	}
	return nil
}
