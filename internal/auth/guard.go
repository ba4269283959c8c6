package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Guard は提示されたAuthorizationヘッダー値を検証し、
// トークンに埋め込まれたClaimsを返す。呼び出しごとにステートレスで、
// 署名と有効期限を毎回独立に再検証する。副作用はない。
type Guard struct {
	secret []byte
}

// NewGuard はGuardを生成する。secretはIssuerと同一のシークレットを指定する。
func NewGuard(secret string) *Guard {
	return &Guard{secret: []byte(secret)}
}

// Authorize はAuthorizationヘッダー値を検証し、埋め込まれたClaimsを返す。
// 失敗種別:
//   - ErrMissingOrMalformed: ヘッダーが空、またはBearerプレフィックスなし。
//     暗号検証より前に判定される。
//   - ErrExpired: 有効期限切れ。署名検証より先に判定されるため、
//     署名の有効性に関わらず期限切れとして報告される。
//   - ErrInvalid: トークンの解析不能、または署名不一致。
func (g *Guard) Authorize(headerValue string) (*Claims, error) {
	if headerValue == "" || !strings.HasPrefix(headerValue, bearerPrefix) {
		return nil, ErrMissingOrMalformed
	}

	tokenStr := strings.TrimPrefix(headerValue, bearerPrefix)
	if tokenStr == "" {
		return nil, ErrMissingOrMalformed
	}

	// 有効期限は署名検証より先に判定する。
	// jwt.ParseWithClaimsは署名→クレームの順に検証するため、
	// まず署名検証なしでexpのみ確認する。
	unverified := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenStr, unverified); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	if unverified.ExpiresAt != nil && unverified.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpired
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}

	return &Claims{
		FirebaseUID: claims.FirebaseUID,
		Email:       claims.Email,
		Name:        claims.Name,
		Picture:     claims.Picture,
	}, nil
}
