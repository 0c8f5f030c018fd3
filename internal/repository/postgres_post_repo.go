package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// postWithMetaColumns は投稿＋付随情報のSELECT句。
// いいね数はサブクエリで集計する（トグル書き込みとは結果整合）。
const postWithMetaColumns = `
	p.id, p.board_id, p.author_id, p.title, p.content, p.category,
	p.view_count, p.created_at, p.updated_at,
	u.username,
	COALESCE(l.like_count, 0)
`

const postWithMetaJoins = `
	JOIN users u ON u.id = p.author_id
	LEFT JOIN (
		SELECT target_id, COUNT(*) AS like_count
		FROM likes
		WHERE target_type = 'POST'
		GROUP BY target_id
	) l ON l.target_id = p.id
`

// List は検索条件に一致する投稿一覧と総件数を返す。
// created_at降順でページネーションする。
func (r *PostgresPostRepo) List(ctx context.Context, f PostFilter) ([]PostWithMeta, int, error) {
	where := `WHERE p.board_id = $1 AND p.title ILIKE '%' || $2 || '%'`
	args := []any{f.BoardID, f.Search}

	if f.Category != nil {
		where += ` AND p.category = $3`
		args = append(args, string(*f.Category))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `SELECT ` + postWithMetaColumns + ` FROM posts p ` + postWithMetaJoins + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Size, f.Page*f.Size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []PostWithMeta
	for rows.Next() {
		p, err := scanPostWithMeta(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id int) (*model.Post, error) {
	p := &model.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, author_id, title, content, category, view_count, created_at, updated_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.BoardID, &p.AuthorID, &p.Title, &p.Content, &p.Category,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}

	return p, nil
}

// IncrementViewCount はview_countをアトミックに1増やし、更新後の投稿を
// 付随情報付きで返す。見つからない場合はnilを返す。
// 単一のUPDATE文でインクリメントするため、同時リクエストN件に対して
// view_countはちょうどN増加する（読み出し・加算・書き戻しのロスト更新がない）。
func (r *PostgresPostRepo) IncrementViewCount(ctx context.Context, id int) (*PostWithMeta, error) {
	row := r.db.QueryRowContext(ctx,
		`WITH bumped AS (
			UPDATE posts SET view_count = view_count + 1
			WHERE id = $1
			RETURNING id, board_id, author_id, title, content, category, view_count, created_at, updated_at
		)
		SELECT `+postWithMetaColumns+`
		FROM bumped p `+postWithMetaJoins,
		id,
	)

	p, err := scanPostWithMeta(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment view count: %w", err)
	}

	return p, nil
}

// Create は投稿を作成し、採番されたIDとタイムスタンプをpostに設定する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (board_id, author_id, title, content, category)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, view_count, created_at, updated_at`,
		post.BoardID, post.AuthorID, post.Title, post.Content, string(post.Category),
	).Scan(&post.ID, &post.ViewCount, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Update は投稿のタイトル・本文・カテゴリを更新する。
func (r *PostgresPostRepo) Update(ctx context.Context, post *model.Post) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, category = $3, updated_at = now()
		 WHERE id = $4`,
		post.Title, post.Content, string(post.Category), post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewPostNotFoundError(post.ID)
	}
	return nil
}

// Delete は指定IDの投稿を削除する。
func (r *PostgresPostRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewPostNotFoundError(id)
	}
	return nil
}

// rowScanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPostWithMeta は投稿＋付随情報の行をスキャンする。
func scanPostWithMeta(row rowScanner) (*PostWithMeta, error) {
	p := &PostWithMeta{}
	err := row.Scan(
		&p.ID, &p.BoardID, &p.AuthorID, &p.Title, &p.Content, &p.Category,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &p.LikeCount,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
