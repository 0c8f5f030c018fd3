package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// PostgresBoardRepo はPostgreSQLを使用した掲示板リポジトリ。
type PostgresBoardRepo struct {
	db *sql.DB
}

// NewPostgresBoardRepo はPostgresBoardRepoを生成する。
func NewPostgresBoardRepo(db *sql.DB) *PostgresBoardRepo {
	return &PostgresBoardRepo{db: db}
}

// ListAll は全掲示板をID昇順で返す。
func (r *PostgresBoardRepo) ListAll(ctx context.Context) ([]*model.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM boards ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		b := &model.Board{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Description); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return boards, nil
}

// FindByID は指定IDの掲示板を取得する。見つからない場合はnilを返す。
func (r *PostgresBoardRepo) FindByID(ctx context.Context, id int) (*model.Board, error) {
	b := &model.Board{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find board by ID: %w", err)
	}

	return b, nil
}

// Create は掲示板を作成し、採番されたIDをboard.IDに設定する。
func (r *PostgresBoardRepo) Create(ctx context.Context, board *model.Board) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO boards (name, description) VALUES ($1, $2) RETURNING id`,
		board.Name, board.Description,
	).Scan(&board.ID)
	if err != nil {
		return fmt.Errorf("failed to insert board: %w", err)
	}
	return nil
}

// Update は掲示板の名前と説明を更新する。
func (r *PostgresBoardRepo) Update(ctx context.Context, board *model.Board) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boards SET name = $1, description = $2 WHERE id = $3`,
		board.Name, board.Description, board.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewBoardNotFoundError(board.ID)
	}
	return nil
}

// Delete は指定IDの掲示板を削除する。存在しない場合はfalseを返す。
func (r *PostgresBoardRepo) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM boards WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete board: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ BoardRepository = (*PostgresBoardRepo)(nil)
