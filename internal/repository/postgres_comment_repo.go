package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListByPostID は投稿のコメント一覧をいいね数付きでcreated_at昇順で返す。
func (r *PostgresCommentRepo) ListByPostID(ctx context.Context, postID int) ([]CommentWithMeta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, c.parent_comment_id, c.content,
		        c.created_at, c.updated_at,
		        u.username,
		        COALESCE(l.like_count, 0)
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 LEFT JOIN (
			SELECT target_id, COUNT(*) AS like_count
			FROM likes
			WHERE target_type = 'COMMENT'
			GROUP BY target_id
		 ) l ON l.target_id = c.id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []CommentWithMeta
	for rows.Next() {
		c := CommentWithMeta{}
		var parentID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &parentID, &c.Content,
			&c.CreatedAt, &c.UpdatedAt, &c.AuthorName, &c.LikeCount); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if parentID.Valid {
			v := int(parentID.Int64)
			c.ParentCommentID = &v
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id int) (*model.Comment, error) {
	c := &model.Comment{}
	var parentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, author_id, parent_comment_id, content, created_at, updated_at
		 FROM comments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.PostID, &c.AuthorID, &parentID, &c.Content, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by ID: %w", err)
	}
	if parentID.Valid {
		v := int(parentID.Int64)
		c.ParentCommentID = &v
	}

	return c, nil
}

// Create はコメントを作成し、採番されたIDとタイムスタンプをcommentに設定する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	var parentID sql.NullInt64
	if comment.ParentCommentID != nil {
		parentID = sql.NullInt64{Int64: int64(*comment.ParentCommentID), Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, author_id, parent_comment_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		comment.PostID, comment.AuthorID, parentID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// Update はコメントの本文を更新する。
func (r *PostgresCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = now() WHERE id = $2`,
		comment.Content, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewCommentNotFoundError(comment.ID)
	}
	return nil
}

// Delete は指定IDのコメントを削除する。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewCommentNotFoundError(id)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
