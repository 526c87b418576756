package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/costaazul/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		OperatorEmail:            "operario@costaazul.cl",
		SessionMaxAge:            3600,
		WorkspaceTTL:             time.Hour,
		WorkspaceCleanupInterval: time.Minute,
		SeedExamples:             true,
		RateLimitGeneral:         600,
		RateLimitSubmit:          60,
		MetricsEnabled:           true,
		ServerPort:               "8080",
		BaseURL:                  "http://localhost:8080",
		CORSAllowedOrigin:        "http://localhost:3000",
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := NewServer(context.Background(), cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

// browser はCookieとCSRFトークンを引き継いでリクエストを送る。
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	if tok, ok := b.cookies["csrf_token"]; ok {
		req.Header.Set("X-CSRF-Token", tok.Value)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return w
}

func TestNewServer_MemoryMode_ServesHealth(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("/health status = %d, want 200", w.Code)
	}
}

func TestNewServer_ExposesMetrics(t *testing.T) {
	srv := newTestServer(t, testConfig())
	b := &browser{t: t, handler: srv.Handler, cookies: map[string]*http.Cookie{}}

	// 発行直後のセッションではワークスペースを作らない
	b.do(http.MethodGet, "/auth/me", "")
	if w := b.do(http.MethodGet, "/metrics", ""); !strings.Contains(w.Body.String(), "costaazul_active_workspaces 0") {
		t.Error("first /auth/me must not create a workspace")
	}

	// Cookieを返した2回目でワークスペースが1つ生成される
	b.do(http.MethodGet, "/auth/me", "")

	w := b.do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"costaazul_active_workspaces 1", "costaazul_http_status_total", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics should contain %q", name)
		}
	}
}

func TestNewServer_MetricsDisabled_HidesEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	srv := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("/metrics status = %d, want 404", w.Code)
	}
}

// SEED_EXAMPLES有効時はセッションごとの台帳に見本予約が入る
func TestNewServer_SeedExamples_OperatorSeesSeededReservations(t *testing.T) {
	srv := newTestServer(t, testConfig())
	b := &browser{t: t, handler: srv.Handler, cookies: map[string]*http.Cookie{}}

	b.do(http.MethodGet, "/api/csrf-token", "")
	if w := b.do(http.MethodPost, "/auth/login", `{"email":"OPERARIO@costaazul.cl"}`); w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}

	w := b.do(http.MethodGet, "/api/reservations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reservations []json.RawMessage `json:"reservations"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(resp.Reservations) == 0 {
		t.Error("seeded reservations should be listed")
	}
}

func TestNewServer_SessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, testConfig())
	first := &browser{t: t, handler: srv.Handler, cookies: map[string]*http.Cookie{}}
	second := &browser{t: t, handler: srv.Handler, cookies: map[string]*http.Cookie{}}

	first.do(http.MethodGet, "/api/csrf-token", "")
	if w := first.do(http.MethodPost, "/auth/login", `{"email":"ana"}`); w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}

	w := second.do(http.MethodGet, "/auth/me", "")
	var me struct {
		State string `json:"state"`
	}
	json.NewDecoder(w.Body).Decode(&me)
	if me.State != "anonymous" {
		t.Errorf("second session state = %q, want anonymous", me.State)
	}
}

func TestRateLimiterConfig_ConvertsPerMinute(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitGeneral = 120
	cfg.RateLimitSubmit = 30

	rc := rateLimiterConfig(cfg)

	if float64(rc.GeneralRate) != 2 {
		t.Errorf("GeneralRate = %v, want 2", rc.GeneralRate)
	}
	if rc.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", rc.GeneralBurst)
	}
	if float64(rc.SubmitRate) != 0.5 {
		t.Errorf("SubmitRate = %v, want 0.5", rc.SubmitRate)
	}
	if rc.SubmitBurst != 30 {
		t.Errorf("SubmitBurst = %d, want 30", rc.SubmitBurst)
	}
}

func TestRateLimiterConfig_NonPositiveKeepsDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitGeneral = 0
	cfg.RateLimitSubmit = -1

	rc := rateLimiterConfig(cfg)

	if rc.GeneralBurst != 120 || rc.SubmitBurst != 20 {
		t.Errorf("bursts = %d/%d, want defaults 120/20", rc.GeneralBurst, rc.SubmitBurst)
	}
}

// DBを使わない構成ではスロット掃除は起動しない
func TestStartSlotCleanup_NoDatabase_IsNoop(t *testing.T) {
	srv := newTestServer(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.StartSlotCleanup(ctx, time.Hour, 0)
}
