package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chumenium/spotlight/internal/model"
	"github.com/chumenium/spotlight/internal/repository"
)

// ExchangeResult はIDトークン交換の結果を表す。
type ExchangeResult struct {
	Token  string
	Claims *Claims
	User   *model.User
}

// Service は認証に関するビジネスロジックを提供する。
// IDトークンの検証 → ユーザーのupsert → セッショントークンの発行を
// 直列に実行する。
type Service struct {
	verifier TokenVerifier
	issuer   *Issuer
	users    repository.UserRepository
}

// NewService はServiceを生成する。
// verifierはnilを許容する。nilの場合、ExchangeTokenは
// ErrVerifierUnavailableを返す（検証器の初期化失敗時もAPIサーバー自体は
// 起動を継続するため）。
func NewService(verifier TokenVerifier, issuer *Issuer, users repository.UserRepository) *Service {
	return &Service{
		verifier: verifier,
		issuer:   issuer,
		users:    users,
	}
}

// ExchangeToken はFirebase IDトークンを検証し、ローカルのセッショントークンを
// 発行する。検証済みClaimsのユーザーをfirebase_uidでupsertし、
// FCM通知トークンが指定されていれば併せて保存する。
// 検証失敗はリトライせず、そのまま呼び出し元に返す。
func (s *Service) ExchangeToken(ctx context.Context, idToken, fcmToken string) (*ExchangeResult, error) {
	if s.verifier == nil {
		return nil, ErrVerifierUnavailable
	}

	claims, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}

	user, err := s.users.UpsertByFirebaseUID(ctx, claims.FirebaseUID, claims.Email, claims.Name, claims.Picture, fcmToken)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := s.issuer.Issue(claims, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("id token exchanged",
		slog.String("firebase_uid", claims.FirebaseUID),
		slog.Int("user_id", user.ID),
	)

	return &ExchangeResult{
		Token:  token,
		Claims: claims,
		User:   user,
	}, nil
}

// UpdateFCMToken は認証済みユーザーのFCM通知トークンを更新する。
func (s *Service) UpdateFCMToken(ctx context.Context, firebaseUID, token string) error {
	if err := s.users.UpdateFCMTokenByFirebaseUID(ctx, firebaseUID, token); err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	return nil
}
