// Package post は投稿管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/metrics"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/security"
)

// 一覧ページネーションの制約。
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// maxTitleLength は投稿タイトルの最大長。
const maxTitleLength = 200

// Page は投稿一覧のページネーション結果を表す。
type Page struct {
	Content       []repository.PostWithMeta
	Page          int
	Size          int
	TotalPages    int
	TotalElements int
	IsLast        bool
}

// ListQuery は投稿一覧の検索条件を表す。
type ListQuery struct {
	BoardID  int
	Search   string
	Category string // 空文字列の場合はカテゴリ条件なし
	Page     int
	Size     int
}

// PostDetail は投稿詳細といいね状態を表す。
type PostDetail struct {
	repository.PostWithMeta
	IsLiked bool
}

// PostService は投稿管理のサービス層。
type PostService struct {
	boards    repository.BoardRepository
	posts     repository.PostRepository
	likes     repository.LikeRepository
	sanitizer security.ContentSanitizerService
	collector metrics.MetricsCollector // nil可
}

// NewPostService はPostServiceの新しいインスタンスを生成する。
// collectorはnilでもよい（メトリクス収集なしで動作する）。
func NewPostService(
	boards repository.BoardRepository,
	posts repository.PostRepository,
	likes repository.LikeRepository,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
) *PostService {
	return &PostService{
		boards:    boards,
		posts:     posts,
		likes:     likes,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// List は検索条件に一致する投稿一覧をページネーションして返す。
// カテゴリ指定が不正な場合はInvalidCategoryエラーを返す。
func (s *PostService) List(ctx context.Context, q ListQuery) (*Page, error) {
	filter := repository.PostFilter{
		BoardID: q.BoardID,
		Search:  strings.TrimSpace(q.Search),
		Page:    q.Page,
		Size:    q.Size,
	}
	if filter.Page < 0 {
		filter.Page = 0
	}
	if filter.Size <= 0 {
		filter.Size = defaultPageSize
	}
	if filter.Size > maxPageSize {
		filter.Size = maxPageSize
	}

	if q.Category != "" {
		category, ok := model.ParsePostCategory(q.Category)
		if !ok {
			return nil, model.NewInvalidCategoryError(q.Category)
		}
		filter.Category = &category
	}

	items, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}

	totalPages := (total + filter.Size - 1) / filter.Size
	if totalPages == 0 {
		totalPages = 1
	}

	return &Page{
		Content:       items,
		Page:          filter.Page,
		Size:          filter.Size,
		TotalPages:    totalPages,
		TotalElements: total,
		IsLast:        filter.Page >= totalPages-1,
	}, nil
}

// Get は投稿詳細を返し、閲覧数をアトミックに1増やす。
// 同時リクエストN件に対して閲覧数はちょうどN増加する。
// いいね状態は認証済みPrincipalに対してのみ判定し、匿名は常にfalse。
func (s *PostService) Get(ctx context.Context, principal authz.Principal, id int) (*PostDetail, error) {
	post, err := s.posts.IncrementViewCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}

	if s.collector != nil {
		s.collector.RecordPostViewed()
	}

	detail := &PostDetail{PostWithMeta: *post}

	if !principal.IsAnonymous() {
		liked, err := s.likes.Exists(ctx, principal.UserID, model.LikeTargetPost, id)
		if err != nil {
			return nil, fmt.Errorf("いいね状態の取得に失敗しました: %w", err)
		}
		detail.IsLiked = liked
	}

	return detail, nil
}

// Create は新しい投稿を作成する。認証必須。
// 本文はサニタイズして保存する。
func (s *PostService) Create(ctx context.Context, principal authz.Principal, boardID int, title, content, category string) (*model.Post, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	title = strings.TrimSpace(title)
	if err := validatePostInput(title, content); err != nil {
		return nil, err
	}

	parsedCategory, ok := model.ParsePostCategory(category)
	if !ok {
		return nil, model.NewInvalidCategoryError(category)
	}

	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("掲示板の取得に失敗しました: %w", err)
	}
	if board == nil {
		return nil, model.NewBoardNotFoundError(boardID)
	}

	post := &model.Post{
		BoardID:  boardID,
		AuthorID: principal.UserID,
		Title:    title,
		Content:  s.sanitizer.Sanitize(content),
		Category: parsedCategory,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}

	slog.Info("post created",
		slog.Int("post_id", post.ID),
		slog.Int("board_id", boardID),
		slog.Int("user_id", principal.UserID),
	)

	return post, nil
}

// Update は投稿のタイトル・本文・カテゴリを更新する。
// 作成者本人のみ更新できる。
func (s *PostService) Update(ctx context.Context, principal authz.Principal, id int, title, content, category string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if err := validatePostInput(title, content); err != nil {
		return nil, err
	}

	parsedCategory, ok := model.ParsePostCategory(category)
	if !ok {
		return nil, model.NewInvalidCategoryError(category)
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}

	if err := authz.AuthorizeResource(principal, post, model.OpUpdate); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = s.sanitizer.Sanitize(content)
	post.Category = parsedCategory
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}

	return post, nil
}

// Delete は投稿を削除する。作成者本人のみ削除できる。
// 紐づくコメント・いいねは外部キーのカスケードで削除される。
func (s *PostService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return model.NewPostNotFoundError(id)
	}

	if err := authz.AuthorizeResource(principal, post, model.OpDelete); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}

	slog.Info("post deleted",
		slog.Int("post_id", id),
		slog.Int("user_id", principal.UserID),
	)

	return nil
}

// validatePostInput は投稿入力のバリデーションを行う。
func validatePostInput(title, content string) error {
	if title == "" {
		return model.NewValidationError("タイトルを入力してください")
	}
	if len(title) > maxTitleLength {
		return model.NewValidationError(fmt.Sprintf("タイトルは%d文字以下で入力してください", maxTitleLength))
	}
	if strings.TrimSpace(content) == "" {
		return model.NewValidationError("本文を入力してください")
	}
	return nil
}
