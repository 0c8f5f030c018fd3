package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, board, message, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeBadCredentials    = "BAD_CREDENTIALS"
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeBoardNotFound     = "BOARD_NOT_FOUND"
	ErrCodePostNotFound      = "POST_NOT_FOUND"
	ErrCodeCommentNotFound   = "COMMENT_NOT_FOUND"
	ErrCodeMessageNotFound   = "MESSAGE_NOT_FOUND"
	ErrCodeInvalidCategory   = "INVALID_CATEGORY"
	ErrCodeInvalidTargetType = "INVALID_TARGET_TYPE"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限なしエラーを生成する。
// 所有者以外がリソースを変更しようとした場合に使用する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分が作成したリソースのみ変更できます。",
	}
}

// NewBadCredentialsError は認証情報不一致エラーを生成する。
// ユーザー名の存在有無を区別しない一般的なメッセージを返す。
func NewBadCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeBadCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUsername,
		Message:  "このユーザー名は既に使用されています。",
		Category: "validation",
		Action:   "別のユーザー名を入力してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを入力してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewBoardNotFoundError は掲示板が見つからない場合のエラーを生成する。
func NewBoardNotFoundError(boardID int) *APIError {
	return &APIError{
		Code:     ErrCodeBoardNotFound,
		Message:  fmt.Sprintf("指定された掲示板が見つかりません: %d", boardID),
		Category: "board",
		Action:   "掲示板IDを確認してください。",
	}
}

// NewPostNotFoundError は投稿が見つからない場合のエラーを生成する。
func NewPostNotFoundError(postID int) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %d", postID),
		Category: "board",
		Action:   "投稿IDを確認してください。",
	}
}

// NewCommentNotFoundError はコメントが見つからない場合のエラーを生成する。
func NewCommentNotFoundError(commentID int) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %d", commentID),
		Category: "board",
		Action:   "コメントIDを確認してください。",
	}
}

// NewMessageNotFoundError はメッセージが見つからない場合のエラーを生成する。
func NewMessageNotFoundError(messageID int) *APIError {
	return &APIError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %d", messageID),
		Category: "message",
		Action:   "メッセージIDを確認してください。",
	}
}

// NewInvalidCategoryError は無効なカテゴリエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("無効なカテゴリです: %s", category),
		Category: "validation",
		Action:   "WEB、MOBILE、BACK、HARD、AI、NETWORK、SECURITY、DEVOPS、ETC のいずれかを指定してください。",
	}
}

// NewInvalidTargetTypeError は無効ないいね対象種別エラーを生成する。
func NewInvalidTargetTypeError(targetType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTargetType,
		Message:  fmt.Sprintf("無効ないいね対象種別です: %s", targetType),
		Category: "validation",
		Action:   "targetTypeには POST または COMMENT を指定してください。",
	}
}

// NewValidationError は入力値検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}
