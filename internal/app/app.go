package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/chumenium/spotlight/internal/auth"
	"github.com/chumenium/spotlight/internal/comment"
	"github.com/chumenium/spotlight/internal/config"
	"github.com/chumenium/spotlight/internal/content"
	"github.com/chumenium/spotlight/internal/database"
	"github.com/chumenium/spotlight/internal/handler"
	"github.com/chumenium/spotlight/internal/logger"
	"github.com/chumenium/spotlight/internal/metrics"
	"github.com/chumenium/spotlight/internal/middleware"
	"github.com/chumenium/spotlight/internal/notification"
	"github.com/chumenium/spotlight/internal/repository"
	"github.com/chumenium/spotlight/internal/search"
	"github.com/chumenium/spotlight/internal/security"
	"github.com/chumenium/spotlight/internal/user"
)

// Init はアプリケーションの初期化を行う。
// .envファイルがあれば読み込んだ上で環境変数からConfigを構築し、
// JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// .envはローカル開発用。本番では環境変数が直接設定されるため、
	// ファイルが無くてもエラーにしない。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(logger.SetupWithLevel(w, logger.ParseLevel(cfg.LogLevel)))

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	contentRepo := repository.NewPostgresContentRepo(db)
	commentRepo := repository.NewPostgresCommentRepo(db)
	notificationRepo := repository.NewPostgresNotificationRepo(db)
	playlistRepo := repository.NewPostgresPlaylistRepo(db)

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. 認証の初期化
	// Firebase検証器の初期化失敗はトークン交換のみを不能にし、
	// サーバー自体は起動を継続する。
	var verifier auth.TokenVerifier
	fv, err := auth.NewFirebaseVerifier(context.Background(), auth.FirebaseVerifierConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsPath: cfg.FirebaseCredentialsPath,
	})
	if err != nil {
		slog.Warn("firebase verifier unavailable, token exchange disabled",
			slog.String("error", err.Error()),
		)
	} else {
		verifier = fv
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpHours)
	guard := auth.NewGuard(cfg.JWTSecret)
	authService := auth.NewService(verifier, issuer, userRepo)

	// 5. ドメインサービスの初期化
	sanitizer := security.NewTextSanitizer()
	notificationService := notification.NewService(notificationRepo, collector)
	contentService := content.NewService(contentRepo, notificationService, sanitizer)
	commentService := comment.NewService(commentRepo, contentRepo, notificationService, sanitizer)
	searchService := search.NewService(contentRepo, userRepo)
	userService := user.NewService(userRepo, contentRepo, playlistRepo)

	// 6. レート制限（configはreq/min単位なのでreq/secに変換）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.PostRate = rate.Limit(float64(cfg.RateLimitPost) / 60.0)
	rateLimiterCfg.PostBurst = cfg.RateLimitPost

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		Guard:             guard,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middleware.NewRateLimiter(rateLimiterCfg),
		Logger:            slog.Default(),

		Metrics:  collector,
		Gatherer: registry,

		AuthService:         authService,
		ContentService:      contentService,
		PostService:         contentService,
		CommentService:      commentService,
		NotificationService: notificationService,
		SearchService:       searchService,
		UserService:         userService,

		DB: db,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
