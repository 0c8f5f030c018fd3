package model

import "time"

// LikeTargetType はいいねの対象種別を表す。
type LikeTargetType string

const (
	// LikeTargetPost は投稿へのいいね。
	LikeTargetPost LikeTargetType = "POST"
	// LikeTargetComment はコメントへのいいね。
	LikeTargetComment LikeTargetType = "COMMENT"
)

// ParseLikeTargetType は文字列をLikeTargetTypeに変換する。
// 未知の値の場合はfalseを返す。
func ParseLikeTargetType(s string) (LikeTargetType, bool) {
	switch LikeTargetType(s) {
	case LikeTargetPost, LikeTargetComment:
		return LikeTargetType(s), true
	}
	return "", false
}

// Like は1ユーザーによる1対象へのいいねマーカーを表す。
// (UserID, TargetType, TargetID) の組は一意であり、
// トグル操作によってのみ作成・削除される。更新は存在しない。
type Like struct {
	ID         int
	UserID     int
	TargetType LikeTargetType
	TargetID   int
	CreatedAt  time.Time
}
