package model

// Board は投稿を束ねる掲示板を表す。
type Board struct {
	ID          int
	Name        string
	Description string
}
