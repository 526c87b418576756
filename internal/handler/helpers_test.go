package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/booking"
	"github.com/hitoshi/costaazul/internal/catalog"
	"github.com/hitoshi/costaazul/internal/flow"
	"github.com/hitoshi/costaazul/internal/middleware"
	"github.com/hitoshi/costaazul/internal/workspace"
)

// --- モック定義 ---

type mockWorkspaces struct {
	withFn func(ctx context.Context, sessionID string, fn func(*workspace.State) error) error
}

func (m *mockWorkspaces) With(ctx context.Context, sessionID string, fn func(*workspace.State) error) error {
	if m.withFn != nil {
		return m.withFn(ctx, sessionID, fn)
	}
	return nil
}

type mockRecorder struct {
	logins   []string
	deposits []string
	statuses []int
}

func (m *mockRecorder) RecordLogin(role string)            { m.logins = append(m.logins, role) }
func (m *mockRecorder) RecordDeposit(outcome string)       { m.deposits = append(m.deposits, outcome) }
func (m *mockRecorder) RecordHTTPStatus(code int)          { m.statuses = append(m.statuses, code) }
func (m *mockRecorder) RecordRequestLatency(time.Duration) {}

// loadingSlot は読み込みに常に失敗するスロット。ゲートはLoadingのままになる。
type loadingSlot struct{}

func (loadingSlot) Read(ctx context.Context) ([]byte, error)     { return nil, context.DeadlineExceeded }
func (loadingSlot) Write(ctx context.Context, data []byte) error { return nil }
func (loadingSlot) Clear(ctx context.Context) error              { return nil }

// --- ヘルパー ---

func newTestStore(t *testing.T) *workspace.Store {
	t.Helper()
	store := workspace.NewStore(workspace.DefaultConfig(), func(sessionID string) (*workspace.State, error) {
		return &workspace.State{
			Gate: auth.NewGate(auth.NewMemorySlot(nil), auth.GateConfig{}),
			Registry: booking.NewRegistry(
				booking.WithClock(booking.FixedClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))),
			),
		}, nil
	}, nil)
	t.Cleanup(store.Stop)
	return store
}

func newTestFlow() *flow.Controller {
	return flow.NewController(catalog.MustDefault())
}

// loginAs はセッションのゲートに直接ログインする。
func loginAs(t *testing.T, store *workspace.Store, sessionID, email string) {
	t.Helper()
	err := store.With(context.Background(), sessionID, func(st *workspace.State) error {
		_, _, err := st.Gate.Login(context.Background(), email)
		return err
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

// serve はセッションID付きのリクエストをハンドラーに渡す。
func serve(h http.Handler, method, path, body, sessionID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req = req.WithContext(middleware.ContextWithSessionID(req.Context(), sessionID))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v\nraw: %s", err, w.Body.String())
	}
	return body
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return string(b)
}

func validSalonForm() flow.SalonForm {
	return flow.SalonForm{
		EventDate:      "2026-02-15",
		SalonID:        1,
		PartySize:      "45",
		RequesterName:  "Juan Pérez",
		RequesterEmail: "juan@example.com",
		RequesterPhone: "+56911111111",
		Description:    "Conferencia empresarial",
		EventStart:     "23:30",
		EventEnd:       "00:15",
	}
}

func validRoomForm() flow.RoomForm {
	return flow.RoomForm{
		CheckIn:        "2026-03-01",
		CheckOut:       "2026-03-03",
		RoomTypeID:     "estandar",
		PetFriendly:    true,
		PetName:        "Rex",
		RequesterName:  "María García",
		RequesterEmail: "maria@example.com",
		RequesterPhone: "+1234567890",
		Document:       "12.345.678-9",
		GuestCount:     "2",
		CheckInTime:    "09:30",
		CheckOutTime:   "11:00",
	}
}
