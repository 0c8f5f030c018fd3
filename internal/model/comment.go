package model

import "time"

// Comment は投稿へのコメントを表す。
// ParentCommentIDが非nilの場合は返信コメントを表す。
type Comment struct {
	ID              int
	PostID          int
	AuthorID        int
	ParentCommentID *int
	Content         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Owner は指定操作における所有者のユーザーIDを返す。
// コメントの変更・削除はすべて作成者に帰属する。
func (c *Comment) Owner(op Operation) int {
	return c.AuthorID
}
