package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/costaazul/internal/catalog"
	"github.com/hitoshi/costaazul/internal/flow"
	"github.com/hitoshi/costaazul/internal/middleware"
)

// MetricsRecorder はルーターが記録するメトリクスのインターフェース。
// metrics.Collector が実装する。
type MetricsRecorder interface {
	Recorder
	middleware.HTTPRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	SessionConfig     middleware.SessionConfig
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// ドメイン
	Workspaces Workspaces
	Catalog    *catalog.Catalog
	Flow       *flow.Controller

	// 運用
	Metrics        MetricsRecorder // nilの場合は記録しない
	MetricsHandler http.Handler    // nilの場合は /metrics を公開しない
	HealthPinger   Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → SecurityHeaders → Metrics → Logging → CORS
//	  → Session → CSRF → RateLimit(General) → [RateLimit(Submission)]
//
// /health と /metrics はセッションを発行しない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var recorder Recorder = nopRecorder{}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware(middleware.SecurityHeadersConfig{
		HSTS: deps.SessionConfig.CookieSecure,
	}))
	if deps.Metrics != nil {
		recorder = deps.Metrics
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.Workspaces, recorder)
	bookingHandler := NewBookingHandler(deps.Workspaces, deps.Flow, recorder)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Flow)

	// --- セッション不要のルート ---
	r.Method(http.MethodGet, "/health", NewHealthHandler(deps.HealthPinger))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- セッションごとのワークスペースを使うルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionConfig))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Get("/api/dashboard", bookingHandler.Dashboard)

		r.Route("/api/catalog", func(r chi.Router) {
			r.Get("/salons", catalogHandler.Salons)
			r.Get("/rooms", catalogHandler.Rooms)
		})

		r.Route("/api/validate", func(r chi.Router) {
			r.Post("/event-hours", catalogHandler.ValidateEventHours)
			r.Post("/stay-hours", catalogHandler.ValidateStayHours)
			r.Post("/salon", catalogHandler.ValidateSalon)
			r.Post("/room", catalogHandler.ValidateRoom)
		})

		// 予約・申請の送信（送信専用レート制限を追加）
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.SubmissionMiddleware())

			r.Post("/api/request/salon", bookingHandler.RequestSalon)
			r.Post("/api/request/room", bookingHandler.RequestRoom)
			r.Post("/api/reserve/salon", bookingHandler.ReserveSalon)
			r.Post("/api/reserve/room", bookingHandler.ReserveRoom)
		})

		r.Route("/api/reservations", func(r chi.Router) {
			r.Get("/", bookingHandler.ListReservations)
			r.Post("/{id}/deposit", bookingHandler.RecordDeposit)
		})
	})

	return r
}
