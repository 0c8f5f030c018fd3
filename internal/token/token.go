// Package token は署名付きアクセストークンの発行と検証を提供する。
//
// トークンはHS256署名のJWT（header.claims.signature の3セグメント形式）で、
// サーバー側に状態を持たない。失効リストは存在せず、ログアウトは
// クライアント側でのトークン破棄のみで行う。
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 検証失敗の分類。呼び出し側はすべて「未認証」として扱い、
// 区別はログ用途に限る。
var (
	// ErrTokenMalformed はトークンが3セグメント形式として解析できないことを示す。
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenBadSignature は署名の再計算が一致しないことを示す。
	ErrTokenBadSignature = errors.New("token signature is invalid")
	// ErrTokenExpired はトークンの有効期限が切れていることを示す。
	ErrTokenExpired = errors.New("token is expired")
)

// Claims は検証済みトークンから取り出した内容を表す。
type Claims struct {
	UserID      int
	Authorities []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// jwtClaims はJWTペイロードのワイヤ表現。
// authクレームはカンマ区切りの権限リスト。
type jwtClaims struct {
	Authorities string `json:"auth"`
	jwt.RegisteredClaims
}

// Codec はアクセストークンのエンコード・デコードを行う。
// 署名鍵とTTLはプロセス起動時に1回設定され、以後不変。
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec はCodecを生成する。
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL は設定されたトークン有効期間を返す。
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue はuserIDを主体とする署名付きトークンを発行する。
// issued_at = now、expires_at = now + TTL。
// 署名はsubject、authorities、両タイムスタンプすべてを対象とする。
func (c *Codec) Issue(userID int, authorities []string, now time.Time) (string, error) {
	claims := jwtClaims{
		Authorities: strings.Join(authorities, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークン文字列を検証し、クレームを返す。
// 失敗はErrTokenMalformed / ErrTokenBadSignature / ErrTokenExpiredのいずれかに分類される。
// nowは有効期限判定の基準時刻。
func (c *Codec) Verify(tokenString string, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwtClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, classifyError(err)
	}

	raw, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	userID, err := strconv.Atoi(raw.Subject)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	claims := &Claims{
		UserID:      userID,
		Authorities: splitAuthorities(raw.Authorities),
	}
	if raw.IssuedAt != nil {
		claims.IssuedAt = raw.IssuedAt.Time
	}
	if raw.ExpiresAt != nil {
		claims.ExpiresAt = raw.ExpiresAt.Time
	}

	return claims, nil
}

// classifyError はjwtライブラリのエラーを本パッケージの分類に変換する。
func classifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenMalformed
	}
}

// splitAuthorities はカンマ区切りのauthクレームを権限リストに変換する。
// 空文字列は空のリストを返す。
func splitAuthorities(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
