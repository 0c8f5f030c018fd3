// Package authz は所有権ベースの認可判定を提供する。
//
// 判定は純粋関数であり副作用を持たない。所有者一致がこのシステムで唯一の
// 認可ルールであり、ロール階層は存在しない。
// ガードは対象リソースがロード済みであることを前提とする。リソース不在は
// 呼び出し側のNotFoundエラーであり、Forbiddenとは区別される。
package authz

import (
	"errors"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/model"
)

var (
	// ErrUnauthenticated は匿名Principalによる要認証操作を示す。
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden はPrincipalがリソース所有者でないことを示す。
	ErrForbidden = errors.New("not the resource owner")
)

// Principal は1リクエストに紐づく認証済み（または匿名）の主体を表す。
// リクエストごとにトークンから再構築され、永続化・キャッシュされない。
type Principal struct {
	UserID      int
	Username    string
	Authorities []string
}

// Anonymous は匿名Principalを返す。
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous は未認証のPrincipalであるかを返す。
func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

// Authorize はPrincipalがownerIDのリソースを変更できるかを判定する。
// 匿名はErrUnauthenticated、所有者不一致はErrForbidden、一致はnilを返す。
func Authorize(p Principal, ownerID int) error {
	if p.IsAnonymous() {
		return ErrUnauthenticated
	}
	if p.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeResource は操作種別に応じた所有者解決を行ったうえで認可判定する。
// 所有者の決定はリソース側のOwner実装に委ねる（投稿・コメントは作成者、
// メッセージの削除は受信者）。
func AuthorizeResource(p Principal, res model.Owned, op model.Operation) error {
	return Authorize(p, res.Owner(op))
}
