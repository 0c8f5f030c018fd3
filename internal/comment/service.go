// Package comment はコメント管理のドメインロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/authz"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/security"
)

// maxCommentLength はコメント本文の最大長。
const maxCommentLength = 2000

// CommentService はコメント管理のサービス層。
// 返信は親コメントIDによる1階層のスレッドとして表現する。
type CommentService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	sanitizer security.ContentSanitizerService
}

// NewCommentService はCommentServiceの新しいインスタンスを生成する。
func NewCommentService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	sanitizer security.ContentSanitizerService,
) *CommentService {
	return &CommentService{
		posts:     posts,
		comments:  comments,
		sanitizer: sanitizer,
	}
}

// ListByPost は投稿のコメント一覧を作成時刻昇順で返す。
func (s *CommentService) ListByPost(ctx context.Context, postID int) ([]repository.CommentWithMeta, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comments, err := s.comments.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	return comments, nil
}

// Create は投稿にコメントを作成する。認証必須。
// parentCommentIDを指定した場合は同じ投稿の既存コメントへの返信となる。
func (s *CommentService) Create(ctx context.Context, principal authz.Principal, postID int, content string, parentCommentID *int) (*model.Comment, error) {
	if principal.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	if parentCommentID != nil {
		parent, err := s.comments.FindByID(ctx, *parentCommentID)
		if err != nil {
			return nil, fmt.Errorf("親コメントの取得に失敗しました: %w", err)
		}
		// 親は同じ投稿に属していなければならない
		if parent == nil || parent.PostID != postID {
			return nil, model.NewCommentNotFoundError(*parentCommentID)
		}
	}

	comment := &model.Comment{
		PostID:          postID,
		AuthorID:        principal.UserID,
		Content:         s.sanitizer.Sanitize(content),
		ParentCommentID: parentCommentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}

	slog.Info("comment created",
		slog.Int("comment_id", comment.ID),
		slog.Int("post_id", postID),
		slog.Int("user_id", principal.UserID),
	)

	return comment, nil
}

// Update はコメント本文を更新する。作成者本人のみ更新できる。
func (s *CommentService) Update(ctx context.Context, principal authz.Principal, id int, content string) (*model.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError(id)
	}

	if err := authz.AuthorizeResource(principal, comment, model.OpUpdate); err != nil {
		return nil, err
	}

	comment.Content = s.sanitizer.Sanitize(content)
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("コメントの更新に失敗しました: %w", err)
	}

	return comment, nil
}

// Delete はコメントを削除する。作成者本人のみ削除できる。
// 返信といいねは外部キーのカスケードで削除される。
func (s *CommentService) Delete(ctx context.Context, principal authz.Principal, id int) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(id)
	}

	if err := authz.AuthorizeResource(principal, comment, model.OpDelete); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}

	slog.Info("comment deleted",
		slog.Int("comment_id", id),
		slog.Int("user_id", principal.UserID),
	)

	return nil
}

// validateCommentContent はコメント本文のバリデーションを行う。
func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return model.NewValidationError("コメント本文を入力してください")
	}
	if len(content) > maxCommentLength {
		return model.NewValidationError(fmt.Sprintf("コメントは%d文字以下で入力してください", maxCommentLength))
	}
	return nil
}
