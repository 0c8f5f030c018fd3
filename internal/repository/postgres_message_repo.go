package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したダイレクトメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

const messageWithUsersQuery = `
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at,
	       s.username, r.username
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id
`

// ListByReceiverID は受信箱のメッセージをcreated_at降順で返す。
func (r *PostgresMessageRepo) ListByReceiverID(ctx context.Context, receiverID int) ([]MessageWithUsers, error) {
	return r.list(ctx, messageWithUsersQuery+` WHERE m.receiver_id = $1 ORDER BY m.created_at DESC`, receiverID)
}

// ListBySenderID は送信済みメッセージをcreated_at降順で返す。
func (r *PostgresMessageRepo) ListBySenderID(ctx context.Context, senderID int) ([]MessageWithUsers, error) {
	return r.list(ctx, messageWithUsersQuery+` WHERE m.sender_id = $1 ORDER BY m.created_at DESC`, senderID)
}

func (r *PostgresMessageRepo) list(ctx context.Context, query string, userID int) ([]MessageWithUsers, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []MessageWithUsers
	for rows.Next() {
		m := MessageWithUsers{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt,
			&m.SenderUsername, &m.ReceiverUsername); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
func (r *PostgresMessageRepo) FindByID(ctx context.Context, id int) (*MessageWithUsers, error) {
	m := &MessageWithUsers{}
	err := r.db.QueryRowContext(ctx,
		messageWithUsersQuery+` WHERE m.id = $1`,
		id,
	).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt,
		&m.SenderUsername, &m.ReceiverUsername)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}

	return m, nil
}

// Create はメッセージを作成し、採番されたIDとタイムスタンプをmessageに設定する。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (sender_id, receiver_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		message.SenderID, message.ReceiverID, message.Content,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Delete は指定IDのメッセージを削除する。
func (r *PostgresMessageRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewMessageNotFoundError(id)
	}
	return nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
