// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsByUsername は指定ユーザー名が登録済みかを返す。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail は指定メールアドレスが登録済みかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// ユーザー名・メールアドレスの一意制約違反は対応するAPIErrorとして返す。
	Create(ctx context.Context, user *model.User) error
}

// BoardRepository は掲示板データの永続化インターフェース。
type BoardRepository interface {
	// ListAll は全掲示板をID昇順で返す。
	ListAll(ctx context.Context) ([]*model.Board, error)

	// FindByID は指定IDの掲示板を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Board, error)

	// Create は掲示板を作成し、採番されたIDをboard.IDに設定する。
	Create(ctx context.Context, board *model.Board) error

	// Update は掲示板の名前と説明を更新する。
	Update(ctx context.Context, board *model.Board) error

	// Delete は指定IDの掲示板を削除する。存在しない場合はfalseを返す。
	Delete(ctx context.Context, id int) (bool, error)
}

// PostFilter は投稿一覧の検索条件を表す。
type PostFilter struct {
	BoardID  int
	Search   string              // タイトル部分一致（大文字小文字を区別しない）
	Category *model.PostCategory // nilの場合はカテゴリ条件なし
	Page     int                 // 0始まり
	Size     int
}

// PostWithMeta は投稿に表示用の付随情報を結合した構造体。
// LikeCountはトグル書き込みに対して結果整合の表示用リード。
type PostWithMeta struct {
	model.Post
	AuthorName string
	LikeCount  int
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// List は検索条件に一致する投稿一覧と総件数を返す。
	// created_at降順でページネーションする。
	List(ctx context.Context, f PostFilter) ([]PostWithMeta, int, error)

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Post, error)

	// IncrementViewCount はview_countをアトミックに1増やし、更新後の投稿を
	// 付随情報付きで返す。見つからない場合はnilを返す。
	// 同時リクエストN件に対してview_countはちょうどN増加する。
	IncrementViewCount(ctx context.Context, id int) (*PostWithMeta, error)

	// Create は投稿を作成し、採番されたIDとタイムスタンプをpostに設定する。
	Create(ctx context.Context, post *model.Post) error

	// Update は投稿のタイトル・本文・カテゴリを更新する。
	Update(ctx context.Context, post *model.Post) error

	// Delete は指定IDの投稿を削除する。
	Delete(ctx context.Context, id int) error
}

// CommentWithMeta はコメントに表示用の付随情報を結合した構造体。
type CommentWithMeta struct {
	model.Comment
	AuthorName string
	LikeCount  int
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// ListByPostID は投稿のコメント一覧をいいね数付きでcreated_at昇順で返す。
	ListByPostID(ctx context.Context, postID int) ([]CommentWithMeta, error)

	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Comment, error)

	// Create はコメントを作成し、採番されたIDとタイムスタンプをcommentに設定する。
	Create(ctx context.Context, comment *model.Comment) error

	// Update はコメントの本文を更新する。
	Update(ctx context.Context, comment *model.Comment) error

	// Delete は指定IDのコメントを削除する。
	Delete(ctx context.Context, id int) error
}

// LikeRepository はいいねマーカーの永続化インターフェース。
// (user_id, target_type, target_id)の一意制約を前提とし、
// 同時トグルの競合は一意制約とDO NOTHINGで決定的に解決する。
type LikeRepository interface {
	// Toggle はいいね状態を反転する。反転後にいいね済みならtrueを返す。
	// 挿入が一意制約で競合した場合は「いいね済み」として扱い、エラーにしない。
	Toggle(ctx context.Context, userID int, targetType model.LikeTargetType, targetID int) (bool, error)

	// Exists は指定ユーザーが対象をいいね済みかを返す。
	Exists(ctx context.Context, userID int, targetType model.LikeTargetType, targetID int) (bool, error)

	// CountByTarget は対象のいいね数を返す。
	CountByTarget(ctx context.Context, targetType model.LikeTargetType, targetID int) (int, error)
}

// MessageWithUsers はメッセージに送受信者のユーザー名を結合した構造体。
type MessageWithUsers struct {
	model.Message
	SenderUsername   string
	ReceiverUsername string
}

// MessageRepository はダイレクトメッセージの永続化インターフェース。
type MessageRepository interface {
	// ListByReceiverID は受信箱のメッセージをcreated_at降順で返す。
	ListByReceiverID(ctx context.Context, receiverID int) ([]MessageWithUsers, error)

	// ListBySenderID は送信済みメッセージをcreated_at降順で返す。
	ListBySenderID(ctx context.Context, senderID int) ([]MessageWithUsers, error)

	// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*MessageWithUsers, error)

	// Create はメッセージを作成し、採番されたIDとタイムスタンプをmessageに設定する。
	Create(ctx context.Context, message *model.Message) error

	// Delete は指定IDのメッセージを削除する。
	Delete(ctx context.Context, id int) error
}
