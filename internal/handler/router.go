package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chumenium/spotlight/internal/auth"
	"github.com/chumenium/spotlight/internal/metrics"
	"github.com/chumenium/spotlight/internal/middleware"
)

// Pinger はヘルスチェックで使用するDB疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Guard             *auth.Guard
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// サービス
	AuthService         AuthServiceInterface
	ContentService      ContentServiceInterface
	PostService         PostServiceInterface
	CommentService      CommentServiceInterface
	NotificationService NotificationServiceInterface
	SearchService       SearchServiceInterface
	UserService         UserServiceInterface

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → RequestID → Logging → Metrics → Recovery
//
// 認証が必要なルートグループにはさらに JWT → RateLimit(General) が適用され、
// 書き込み系の一部には投稿専用レート制限が追加される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	contentHandler := NewContentHandler(deps.ContentService)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)
	notificationHandler := NewNotificationHandler(deps.NotificationService)
	searchHandler := NewSearchHandler(deps.SearchService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// トークン交換（認証の入口なのでガードの外）
	r.Post("/api/auth/firebase", authHandler.ExchangeToken)

	// 読み取り専用のコンテンツ・コメント取得
	r.Get("/api/content/{id}", contentHandler.GetContentDetail)
	r.Route("/api/comments/{id}", func(r chi.Router) {
		r.Get("/", commentHandler.ListComments)
		r.Get("/count", commentHandler.CountComments)
	})

	// 投稿・検索・ユーザーの読み取り
	r.Get("/api/posts", postHandler.ListPosts)
	r.Get("/api/posts/{id}", postHandler.GetPost)
	r.Get("/api/search", searchHandler.Search)
	r.Get("/api/search/suggestions", searchHandler.Suggest)
	r.Get("/api/users/{id}", userHandler.GetUser)
	r.Get("/api/users/{id}/playlists", userHandler.GetUserPlaylists)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: JWT → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewJWTAuthMiddleware(deps.Guard, deps.UserFinder, deps.Metrics))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Post("/api/auth/update_token", authHandler.UpdateToken)

		// 投稿（作成のみ投稿専用レート制限を追加）
		if deps.RateLimiter != nil {
			r.With(deps.RateLimiter.PostMiddleware()).Post("/api/posts", postHandler.CreatePost)
			r.With(deps.RateLimiter.PostMiddleware()).Post("/api/comments", commentHandler.CreateComment)
		} else {
			r.Post("/api/posts", postHandler.CreatePost)
			r.Post("/api/comments", commentHandler.CreateComment)
		}

		// スポットライト
		r.Post("/api/posts/{id}/spotlight", postHandler.Spotlight)
		r.Delete("/api/posts/{id}/spotlight", postHandler.Unspotlight)

		// コメント削除
		r.Delete("/api/comments/{id}", commentHandler.DeleteComment)

		// 通知
		r.Get("/api/notifications", notificationHandler.ListNotifications)
		r.Put("/api/notifications/{id}/read", notificationHandler.MarkNotificationRead)

		// プロフィール更新
		r.Put("/api/users/{id}", userHandler.UpdateUser)
	})

	return r
}

// NewHealthHandler は死活監視エンドポイントのハンドラーを返す。
// DBが設定されている場合は疎通確認も行う。
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
