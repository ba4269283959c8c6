package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims はセッショントークンに埋め込むJWTクレーム。
type sessionClaims struct {
	jwt.RegisteredClaims
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
}

// Issuer は検証済みClaimsから署名付きセッショントークンを発行する。
// 署名にはプロセス全体で共有するシークレット（HS256）を使用する。
// シークレットとTTLは起動時に設定され、以降変更されない。
// トークンは自己完結しており、後の検証にDB参照を必要としない。
type Issuer struct {
	secret   []byte
	ttlHours int
}

// NewIssuer はIssuerを生成する。
func NewIssuer(secret string, ttlHours int) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		ttlHours: ttlHours,
	}
}

// Issue はClaimsを埋め込んだ署名付きトークン文字列を返す。
// 有効期限は now + TTL時間。
func (i *Issuer) Issue(claims *Claims, now time.Time) (string, error) {
	sc := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(i.ttlHours) * time.Hour)),
		},
		FirebaseUID: claims.FirebaseUID,
		Email:       claims.Email,
		Name:        claims.Name,
		Picture:     claims.Picture,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sc)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}
