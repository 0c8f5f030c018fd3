package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用したいいねリポジトリ。
//
// likesテーブルの(user_id, target_type, target_id)一意制約が
// 同時トグルの直列化点となる。チェック後に挿入する方式ではなく、
// DELETE → INSERT ... ON CONFLICT DO NOTHING の各文単位のアトミック性に
// 依存することで、重複行の永続化と二重削除のどちらも起こらない。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// Toggle はいいね状態を反転する。反転後にいいね済みならtrueを返す。
//
// まずDELETEを試み、1行消えたなら「いいね済み→解除」で完了。
// 0行ならINSERTを試みる。ON CONFLICT DO NOTHINGにより、同一ユーザーの
// 同時トグルと競合して挿入が0行になった場合は「すでにいいね済み」として
// 扱い、エラーにしない。どちらの経路でも最終状態は決定的に収束する。
func (r *PostgresLikeRepo) Toggle(ctx context.Context, userID int, targetType model.LikeTargetType, targetID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND target_type = $2 AND target_id = $3`,
		userID, string(targetType), targetID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO likes (user_id, target_type, target_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT ON CONSTRAINT uq_likes_user_target DO NOTHING`,
		userID, string(targetType), targetID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	// 挿入が競合で0行になった場合も結果は「いいね済み」で同じ。
	return true, nil
}

// Exists は指定ユーザーが対象をいいね済みかを返す。
func (r *PostgresLikeRepo) Exists(ctx context.Context, userID int, targetType model.LikeTargetType, targetID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM likes WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		 )`,
		userID, string(targetType), targetID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// CountByTarget は対象のいいね数を返す。
func (r *PostgresLikeRepo) CountByTarget(ctx context.Context, targetType model.LikeTargetType, targetID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2`,
		string(targetType), targetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
