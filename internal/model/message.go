package model

import "time"

// Message はユーザー間のダイレクトメッセージを表す。
type Message struct {
	ID         int
	SenderID   int
	ReceiverID int
	Content    string
	CreatedAt  time.Time
}

// Owner は指定操作における所有者のユーザーIDを返す。
// 削除の所有者は送信者ではなく受信者である（受信箱からの削除）。
func (m *Message) Owner(op Operation) int {
	switch op {
	case OpDelete:
		return m.ReceiverID
	default:
		return m.SenderID
	}
}

// Participant はuserIDがこのメッセージの送信者または受信者であるかを返す。
func (m *Message) Participant(userID int) bool {
	return userID == m.SenderID || userID == m.ReceiverID
}
