// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/auth"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/board"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/comment"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/config"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/database"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/handler"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/like"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/logger"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/message"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/metrics"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/post"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/repository"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/security"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/token"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

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
	boardRepo := repository.NewPostgresBoardRepo(db)
	postRepo := repository.NewPostgresPostRepo(db)
	commentRepo := repository.NewPostgresCommentRepo(db)
	likeRepo := repository.NewPostgresLikeRepo(db)
	messageRepo := repository.NewPostgresMessageRepo(db)

	// 3. トークンコーデックとサニタイザーの初期化
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	sanitizer := security.NewContentSanitizer()

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	authService := auth.NewAuthService(userRepo, codec, cfg.BcryptCost)
	boardService := board.NewBoardService(boardRepo)
	postService := post.NewPostService(boardRepo, postRepo, likeRepo, sanitizer, collector)
	commentService := comment.NewCommentService(postRepo, commentRepo, sanitizer)
	likeService := like.NewLikeService(likeRepo, collector)
	messageService := message.NewMessageService(userRepo, messageRepo, collector)

	// 6. レート制限の初期化（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.WriteRate = rate.Limit(float64(cfg.RateLimitWrite) / 60.0)
	rateLimiterCfg.WriteBurst = cfg.RateLimitWrite
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		TokenVerifier:     codec,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		Metrics:        collector,
		MetricsGateway: registry,

		AuthService:    authService,
		BoardService:   boardService,
		PostService:    postService,
		CommentService: commentService,
		LikeService:    likeService,
		MessageService: messageService,

		TokenTTL: cfg.JWTTTL,
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
