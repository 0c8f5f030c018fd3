// Package message はダイレクトメッセージのドメインロジックを提供する。
package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/metrics"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// maxMessageLength はメッセージ本文の最大長。
const maxMessageLength = 1000

// MessageService はダイレクトメッセージのサービス層。
// 閲覧は送受信者のみ、削除は受信者のみに許可される。
type MessageService struct {
	users     repository.UserRepository
	messages  repository.MessageRepository
	collector metrics.MetricsCollector // nil可
}

// NewMessageService はMessageServiceの新しいインスタンスを生成する。
// collectorはnilでもよい（メトリクス収集なしで動作する）。
func NewMessageService(
	users repository.UserRepository,
	messages repository.MessageRepository,
	collector metrics.MetricsCollector,
) *MessageService {
	return &MessageService{
		users:     users,
		messages:  messages,
		collector: collector,
	}
}

// Send はメッセージを送信する。認証必須。
// 受信者が実在しない場合はUserNotFoundエラーを返す。
func (s *MessageService) Send(ctx context.Context, principal authz.Principal, receiverID int, content string) (*model.Message, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	if strings.TrimSpace(content) == "" {
		return nil, model.NewValidationError("メッセージ本文を入力してください")
	}
	if len(content) > maxMessageLength {
		return nil, model.NewValidationError(fmt.Sprintf("メッセージは%d文字以下で入力してください", maxMessageLength))
	}
	if receiverID == principal.UserID {
		return nil, model.NewValidationError("自分自身にはメッセージを送信できません")
	}

	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("受信者の取得に失敗しました: %w", err)
	}
	if receiver == nil {
		return nil, model.NewUserNotFoundError()
	}

	message := &model.Message{
		SenderID:   principal.UserID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("メッセージの送信に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordMessageSent()
	}

	slog.Info("message sent",
		slog.Int("message_id", message.ID),
		slog.Int("sender_id", principal.UserID),
		slog.Int("receiver_id", receiverID),
	)

	return message, nil
}

// Inbox は受信箱のメッセージを新しい順で返す。認証必須。
func (s *MessageService) Inbox(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	messages, err := s.messages.ListByReceiverID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("受信箱の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// Sent は送信済みメッセージを新しい順で返す。認証必須。
func (s *MessageService) Sent(ctx context.Context, principal authz.Principal) ([]repository.MessageWithUsers, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	messages, err := s.messages.ListBySenderID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("送信済みメッセージの取得に失敗しました: %w", err)
	}
	return messages, nil
}

// Get はメッセージ詳細を返す。送信者または受信者のみ閲覧できる。
func (s *MessageService) Get(ctx context.Context, principal authz.Principal, id int) (*repository.MessageWithUsers, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	message, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if message == nil {
		return nil, model.NewMessageNotFoundError(id)
	}

	if !message.Participant(principal.UserID) {
		return nil, model.NewForbiddenError()
	}

	return message, nil
}

// Delete はメッセージを削除する。受信者のみ削除できる。
// 送信者であっても受信者でなければForbiddenとなる。
func (s *MessageService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	message, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if message == nil {
		return model.NewMessageNotFoundError(id)
	}

	if err := authz.AuthorizeResource(principal, &message.Message, model.OpDelete); err != nil {
		return err
	}

	if err := s.messages.Delete(ctx, id); err != nil {
		return fmt.Errorf("メッセージの削除に失敗しました: %w", err)
	}

	slog.Info("message deleted",
		slog.Int("message_id", id),
		slog.Int("user_id", principal.UserID),
	)

	return nil
}
