package model

import "time"

// PostCategory は投稿のカテゴリを表す。
type PostCategory string

const (
	CategoryWeb      PostCategory = "WEB"
	CategoryMobile   PostCategory = "MOBILE"
	CategoryBack     PostCategory = "BACK"
	CategoryHard     PostCategory = "HARD"
	CategoryAI       PostCategory = "AI"
	CategoryNetwork  PostCategory = "NETWORK"
	CategorySecurity PostCategory = "SECURITY"
	CategoryDevOps   PostCategory = "DEVOPS"
	CategoryEtc      PostCategory = "ETC"
)

// ParsePostCategory は文字列をPostCategoryに変換する。
// 未知の値の場合はfalseを返す。
func ParsePostCategory(s string) (PostCategory, bool) {
	switch PostCategory(s) {
	case CategoryWeb, CategoryMobile, CategoryBack, CategoryHard,
		CategoryAI, CategoryNetwork, CategorySecurity, CategoryDevOps, CategoryEtc:
		return PostCategory(s), true
	}
	return "", false
}

// Post は掲示板への投稿を表す。
// ViewCountは単調非減少であり、詳細表示のたびにちょうど1ずつ増加する。
type Post struct {
	ID        int
	BoardID   int
	AuthorID  int
	Title     string
	Content   string
	Category  PostCategory
	ViewCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner は指定操作における所有者のユーザーIDを返す。
// 投稿の変更・削除はすべて作成者に帰属する。
func (p *Post) Owner(op Operation) int {
	return p.AuthorID
}
