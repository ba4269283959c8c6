package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// idTokenVerifier はFirebase Admin SDKのIDトークン検証部分のインターフェース。
// firebaseauth.Clientがこれを実装する。テストではモックに差し替える。
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// FirebaseVerifierConfig はFirebaseVerifierの設定。
type FirebaseVerifierConfig struct {
	ProjectID       string
	CredentialsPath string // 空の場合はApplication Default Credentialsを使用
}

// FirebaseVerifier はFirebase Admin SDKによるTokenVerifierの実装。
// プロセス起動時に1回構築し、イミュータブルなハンドルとして
// サービス層に注入する。内部のSDKクライアントはスレッドセーフであり、
// プロバイダ公開鍵の取得とキャッシュはSDKが行う。
type FirebaseVerifier struct {
	verifier idTokenVerifier
}

// NewFirebaseVerifier はFirebase Admin SDKを初期化しFirebaseVerifierを生成する。
func NewFirebaseVerifier(ctx context.Context, cfg FirebaseVerifierConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firebase auth client: %w", err)
	}

	return &FirebaseVerifier{verifier: client}, nil
}

// VerifyIDToken はFirebase IDトークンの署名と有効期限を検証し、
// ペイロードからClaimsを抽出する。未設定のオプション属性は空文字列となる。
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	token, err := v.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	return &Claims{
		FirebaseUID: token.UID,
		Email:       getStringClaim(token.Claims, "email"),
		Name:        getStringClaim(token.Claims, "name"),
		Picture:     getStringClaim(token.Claims, "picture"),
	}, nil
}

// getStringClaim はクレームマップから文字列クレームを安全に取り出す。
// 存在しない場合や文字列でない場合は空文字列を返す。
func getStringClaim(claims map[string]any, key string) string {
	val, ok := claims[key]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}

var _ TokenVerifier = (*FirebaseVerifier)(nil)
