package model

// Operation はリソースに対する操作種別を表す。
// 所有者判定は操作ごとに異なりうるため（例: メッセージの削除は受信者に帰属）、
// 所有者解決はOperationでパラメータ化する。
type Operation string

const (
	// OpUpdate はリソースの更新操作。
	OpUpdate Operation = "update"
	// OpDelete はリソースの削除操作。
	OpDelete Operation = "delete"
)

// Owned は操作ごとの所有者を公開するリソースのインターフェース。
// 認可ガードは所有者IDとPrincipalの一致のみを判定する。
type Owned interface {
	// Owner は指定操作における所有者のユーザーIDを返す。
	Owner(op Operation) int
}
