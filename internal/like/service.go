// Package like はいいねトグルと状態照会のドメインロジックを提供する。
package like

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/metrics"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
)

// Status は対象のいいね状態を表す。
type Status struct {
	IsLiked   bool
	LikeCount int
}

// LikeService はいいねトグルと状態照会のサービス層。
// トグルの競合解決はリポジトリの一意制約に委ね、サービス層はロックを持たない。
type LikeService struct {
	likes     repository.LikeRepository
	collector metrics.MetricsCollector // nil可
}

// NewLikeService はLikeServiceの新しいインスタンスを生成する。
// collectorはnilでもよい（メトリクス収集なしで動作する）。
func NewLikeService(likes repository.LikeRepository, collector metrics.MetricsCollector) *LikeService {
	return &LikeService{
		likes:     likes,
		collector: collector,
	}
}

// Toggle はいいね状態を反転する。認証必須。
// 反転後の状態と対象のいいね数を返す。
// 同一ユーザーの偶数回のトグルは初期状態に収束し、重複行は永続化されない。
func (s *LikeService) Toggle(ctx context.Context, principal authz.Principal, targetType string, targetID int) (*Status, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	parsed, ok := model.ParseLikeTargetType(targetType)
	if !ok {
		return nil, model.NewInvalidTargetTypeError(targetType)
	}

	liked, err := s.likes.Toggle(ctx, principal.UserID, parsed, targetID)
	if err != nil {
		return nil, fmt.Errorf("いいねの切り替えに失敗しました: %w", err)
	}

	count, err := s.likes.CountByTarget(ctx, parsed, targetID)
	if err != nil {
		return nil, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordLikeToggled(string(parsed), liked)
	}

	slog.Info("like toggled",
		slog.Int("user_id", principal.UserID),
		slog.String("target_type", string(parsed)),
		slog.Int("target_id", targetID),
		slog.Bool("liked", liked),
	)

	return &Status{IsLiked: liked, LikeCount: count}, nil
}

// GetStatus は対象のいいね状態を返す。
// 匿名PrincipalのIsLikedは常にfalseで、エラーにはしない。
func (s *LikeService) GetStatus(ctx context.Context, principal authz.Principal, targetType string, targetID int) (*Status, error) {
	parsed, ok := model.ParseLikeTargetType(targetType)
	if !ok {
		return nil, model.NewInvalidTargetTypeError(targetType)
	}

	count, err := s.likes.CountByTarget(ctx, parsed, targetID)
	if err != nil {
		return nil, fmt.Errorf("いいね数の取得に失敗しました: %w", err)
	}

	status := &Status{LikeCount: count}

	if !principal.IsAnonymous() {
		liked, err := s.likes.Exists(ctx, principal.UserID, parsed, targetID)
		if err != nil {
			return nil, fmt.Errorf("いいね状態の取得に失敗しました: %w", err)
		}
		status.IsLiked = liked
	}

	return status, nil
}
