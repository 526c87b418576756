package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/booking"
	"github.com/hitoshi/costaazul/internal/catalog"
	"github.com/hitoshi/costaazul/internal/config"
	"github.com/hitoshi/costaazul/internal/database"
	"github.com/hitoshi/costaazul/internal/flow"
	"github.com/hitoshi/costaazul/internal/handler"
	"github.com/hitoshi/costaazul/internal/metrics"
	"github.com/hitoshi/costaazul/internal/middleware"
	"github.com/hitoshi/costaazul/internal/repository"
	"github.com/hitoshi/costaazul/internal/security"
	"github.com/hitoshi/costaazul/internal/worker/cleanup"
	"github.com/hitoshi/costaazul/internal/workspace"
)

// Server はserveモードで組み立てた依存関係を保持する。
// Closeで内部のバックグラウンド処理とDB接続を解放する。
type Server struct {
	Handler http.Handler

	db      *sql.DB
	slots   repository.IdentitySlotRepository
	store   *workspace.Store
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewServer は設定から全依存関係をワイヤリングしたServerを返す。
// DATABASE_URLが未設定の場合、Identityはセッション内のメモリにのみ保持される。
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger}

	// 1. Identityスロットの永続化先
	var pinger handler.Pinger
	if cfg.UsesDatabase() {
		db, err := database.Connect(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db
		s.slots = repository.NewPostgresIdentitySlotRepo(db)
		pinger = db
		logger.Info("database connection established")
	} else {
		logger.Warn("DATABASE_URL is not set, identities live in process memory only")
	}

	// 2. セッション別ワークスペース
	s.store = workspace.NewStore(workspace.Config{
		TTL:             cfg.WorkspaceTTL,
		CleanupInterval: cfg.WorkspaceCleanupInterval,
	}, newWorkspaceFactory(cfg, s.slots, logger), logger)

	// 3. ドメインサービス
	cat, err := catalog.Default()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	flowOpts := []flow.Option{flow.WithSanitizer(security.NewTextSanitizer())}

	// 4. ルーター
	s.limiter = middleware.NewRateLimiter(rateLimiterConfig(cfg))
	deps := &handler.RouterDeps{
		Logger:            logger,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		SessionConfig: middleware.SessionConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
			MaxAge:       cfg.SessionMaxAge,
		},
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter:  s.limiter,
		Workspaces:   s.store,
		Catalog:      cat,
		HealthPinger: pinger,
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.NewCollector(reg)
		collector.WatchWorkspaces(s.store.Len)
		flowOpts = append(flowOpts, flow.WithRecorder(collector))
		deps.Metrics = collector
		deps.MetricsHandler = metrics.Handler(reg)
	}
	deps.Flow = flow.NewController(cat, flowOpts...)

	s.Handler = handler.NewRouter(deps)
	return s, nil
}

// newWorkspaceFactory はセッションごとのゲートと台帳を生成するFactoryを返す。
// slotsがnilの場合はメモリ上のスロットを使う。
func newWorkspaceFactory(cfg *config.Config, slots repository.IdentitySlotRepository, logger *slog.Logger) workspace.Factory {
	gateCfg := auth.GateConfig{OperatorEmail: cfg.OperatorEmail, Logger: logger}

	return func(sessionID string) (*workspace.State, error) {
		var slot auth.Slot
		if slots != nil {
			slot = auth.NewRepositorySlot(slots, sessionID)
		} else {
			slot = auth.NewMemorySlot(nil)
		}

		opts := []booking.Option{booking.WithLogger(logger)}
		if cfg.SeedExamples {
			opts = append(opts, booking.WithSeed(booking.SeedReservations()))
		}

		return &workspace.State{
			Gate:     auth.NewGate(slot, gateCfg),
			Registry: booking.NewRegistry(opts...),
		}, nil
	}
}

// rateLimiterConfig は req/min 単位の設定を req/sec に変換する。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rc := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rc.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rc.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitSubmit > 0 {
		rc.SubmitRate = rate.Limit(float64(cfg.RateLimitSubmit) / 60.0)
		rc.SubmitBurst = cfg.RateLimitSubmit
	}
	return rc
}

// StartSlotCleanup は保持期間を超過したIdentityスロットの削除を定期実行する。
// DBを使わない構成では何もしない。ctxのキャンセルで停止する。
func (s *Server) StartSlotCleanup(ctx context.Context, retention, interval time.Duration) {
	if s.slots == nil {
		return
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	job := cleanup.NewCleanupJob(s.slots, s.logger)
	job.Retention = retention

	go func() {
		// 起動直後に1回実行
		if err := job.Run(ctx); err != nil {
			s.logger.Error("cleanup job failed", slog.String("error", err.Error()))
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := job.Run(ctx); err != nil {
					s.logger.Error("cleanup job failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// Close はワークスペースとレートリミッターの掃除を止め、DB接続を閉じる。
func (s *Server) Close() {
	if s.store != nil {
		s.store.Stop()
	}
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
}
