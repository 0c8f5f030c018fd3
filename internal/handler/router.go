package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/metrics"
	"github.com/Goormthon-full-stack-joribhaejo/joribhaejo-web/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics        *metrics.Collector
	MetricsGateway prometheus.Gatherer

	// ドメインサービス
	AuthService    AuthServiceInterface
	BoardService   BoardServiceInterface
	PostService    PostServiceInterface
	CommentService CommentServiceInterface
	LikeService    LikeServiceInterface
	MessageService MessageServiceInterface

	// トークン有効期間（ログインレスポンスのexpires_inに使う）
	TokenTTL time.Duration
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → RequestID → Logging → Recovery → Metrics → AuthResolver → RateLimit(General)
//
// AuthResolverはBearerトークンの検証に失敗してもリクエストを拒否せず、
// 匿名プリンシパルとして通過させる。認証要否の判断はサービス層が行う。
// 書き込み系エンドポイントには書き込み専用レート制限を追加で適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(middleware.NewAuthResolver(deps.TokenVerifier, deps.UserFinder))
	r.Use(deps.RateLimiter.GeneralMiddleware())

	writeLimit := deps.RateLimiter.WriteMiddleware()

	authHandler := NewAuthHandler(deps.AuthService, deps.TokenTTL)
	boardHandler := NewBoardHandler(deps.BoardService)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)
	likeHandler := NewLikeHandler(deps.LikeService)
	messageHandler := NewMessageHandler(deps.MessageService)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheusメトリクス
	if deps.MetricsGateway != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGateway).ServeHTTP)
	}

	// ユーザー管理
	r.Route("/api/users", func(r chi.Router) {
		r.With(writeLimit).Post("/signup", authHandler.Signup)
		r.With(writeLimit).Post("/login", authHandler.Login)
		r.Get("/me", authHandler.Me)
	})

	// 掲示板管理
	r.Route("/api/boards", func(r chi.Router) {
		r.Get("/", boardHandler.List)
		r.With(writeLimit).Post("/", boardHandler.Create)

		r.Route("/{boardId}", func(r chi.Router) {
			r.Get("/", boardHandler.Get)
			r.With(writeLimit).Put("/", boardHandler.Update)
			r.With(writeLimit).Delete("/", boardHandler.Delete)
		})
	})

	// 投稿管理
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.List)
		r.With(writeLimit).Post("/", postHandler.Create)

		r.Route("/{postId}", func(r chi.Router) {
			r.Get("/", postHandler.Get)
			r.With(writeLimit).Put("/", postHandler.Update)
			r.With(writeLimit).Delete("/", postHandler.Delete)

			// GET /api/posts/{postId}/comments - 投稿のコメント一覧
			r.Get("/comments", commentHandler.ListByPost)
		})
	})

	// コメント管理
	r.Route("/api/comments", func(r chi.Router) {
		r.With(writeLimit).Post("/{postId}", commentHandler.Create)
		r.With(writeLimit).Put("/{commentId}", commentHandler.Update)
		r.With(writeLimit).Delete("/{commentId}", commentHandler.Delete)
	})

	// いいね管理
	r.Route("/api/likes/{targetId}", func(r chi.Router) {
		r.Get("/", likeHandler.GetStatus)
		r.With(writeLimit).Post("/posts", likeHandler.TogglePost)
		r.With(writeLimit).Post("/comments", likeHandler.ToggleComment)
	})

	// メッセージ管理
	// POSTの{id}は受信者のユーザーID、GET/DELETEの{id}はメッセージID。
	// chiは同一セグメントに異なるパラメータ名を許さないため名前を共有する。
	r.Route("/api/messages", func(r chi.Router) {
		r.Get("/inbox", messageHandler.Inbox)
		r.Get("/sent", messageHandler.Sent)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", messageHandler.Get)
			r.With(writeLimit).Post("/", messageHandler.Send)
			r.With(writeLimit).Delete("/", messageHandler.Delete)
		})
	})

	return r
}
