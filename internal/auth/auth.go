// Package auth はFirebase IDトークンの検証、セッショントークン（JWT）の
// 発行・検証を提供する。
//
// 処理は直列に合成される:
//
//	IDトークン → TokenVerifier → Claims → Issuer → セッショントークン
//
// 保護されたエンドポイントではGuardが逆方向の検証を行い、
// トークンに埋め込まれたClaimsを取り出す。
package auth

import (
	"context"
	"errors"
)

// Claims は検証済みIDトークンまたはセッショントークンから抽出した
// ユーザー属性を表す。未設定のオプション属性は空文字列となる。
type Claims struct {
	FirebaseUID string
	Email       string
	Name        string
	Picture     string
}

// TokenVerifier は外部IdPが発行したIDトークンを検証するインターフェース。
// infra実装（Firebase Admin SDK）がこのインターフェースを実装する。
type TokenVerifier interface {
	// VerifyIDToken はIDトークンの署名と有効期限を検証し、Claimsを返す。
	// 形式不正・署名不正・期限切れの場合はエラーを返す。検証失敗は
	// リクエストに対して終端的であり、リトライしない。
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
}

// 認可ヘッダー検証の失敗種別を表すセンチネルエラー。
// errors.Isで判別し、ハンドラー側でHTTPステータスに変換する。
var (
	// ErrMissingOrMalformed はAuthorizationヘッダーが欠落しているか
	// Bearerプレフィックスを持たない場合のエラー。
	// 暗号検証より前に判定される。
	ErrMissingOrMalformed = errors.New("missing_or_malformed")

	// ErrExpired はトークンの有効期限が過ぎている場合のエラー。
	// 署名の有効性に関わらず期限切れとして報告される。
	ErrExpired = errors.New("expired")

	// ErrInvalid は署名が設定済みシークレットで検証できない場合のエラー。
	ErrInvalid = errors.New("invalid")

	// ErrVerifierUnavailable はIDトークン検証器が初期化されていない場合のエラー。
	ErrVerifierUnavailable = errors.New("token verifier unavailable")
)
