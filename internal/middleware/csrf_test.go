package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// csrfRequest は予約送信を模したリクエストを組み立てる。空文字のトークンは付与しない。
func csrfRequest(method, cookieToken, headerToken string) *http.Request {
	req := httptest.NewRequest(method, "/api/reserve/salon", nil)
	if cookieToken != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookieToken})
	}
	if headerToken != "" {
		req.Header.Set(csrfHeaderName, headerToken)
	}
	return req
}

func TestCSRFMiddleware_Verification(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		cookie      string
		header      string
		wantStatus  int
		wantHandler bool
	}{
		{"GETはトークン不要", http.MethodGet, "", "", http.StatusOK, true},
		{"HEADはトークン不要", http.MethodHead, "", "", http.StatusOK, true},
		{"OPTIONSはトークン不要", http.MethodOptions, "", "", http.StatusOK, true},
		{"POST Cookieなし", http.MethodPost, "", "tok", http.StatusForbidden, false},
		{"POST ヘッダーなし", http.MethodPost, "tok", "", http.StatusForbidden, false},
		{"POST 不一致", http.MethodPost, "tok-a", "tok-b", http.StatusForbidden, false},
		{"POST 一致", http.MethodPost, "tok", "tok", http.StatusOK, true},
		{"PUT 一致", http.MethodPut, "tok", "tok", http.StatusOK, true},
		{"PATCH トークンなし", http.MethodPatch, "", "", http.StatusForbidden, false},
		{"DELETE トークンなし", http.MethodDelete, "", "", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, csrfRequest(tt.method, tt.cookie, tt.header))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if called != tt.wantHandler {
				t.Errorf("handler called = %v, want %v", called, tt.wantHandler)
			}
		})
	}
}

func TestCSRFMiddleware_Rejection_ReturnsUnifiedJSON(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, csrfRequest(http.MethodPost, "", ""))

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != "CSRF_INVALID" {
		t.Errorf("code = %q, want CSRF_INVALID", body.Code)
	}
	if body.Category != "auth" {
		t.Errorf("category = %q, want auth", body.Category)
	}
}

func TestCSRFMiddleware_SafeMethod_IssuesCookieOnce(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{CookieDomain: "costaazul.cl", CookieSecure: true})(okHandler())

	t.Run("Cookieがなければ発行する", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		ck := findCookie(w.Result(), csrfCookieName)
		if ck == nil {
			t.Fatal("expected CSRF cookie to be set on GET request")
		}
		if len(ck.Value) != 64 {
			t.Errorf("token length = %d, want 64 hex chars", len(ck.Value))
		}
		if ck.HttpOnly {
			t.Error("CSRF cookie should NOT be HttpOnly (frontend needs to read it)")
		}
		if !ck.Secure || ck.SameSite != http.SameSiteLaxMode || ck.Path != "/" {
			t.Errorf("cookie attributes = secure:%v samesite:%v path:%q", ck.Secure, ck.SameSite, ck.Path)
		}
		if ck.MaxAge != csrfCookieMaxAge {
			t.Errorf("MaxAge = %d, want %d", ck.MaxAge, csrfCookieMaxAge)
		}
	})

	t.Run("既存のCookieは置き換えない", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-token"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if ck := findCookie(w.Result(), csrfCookieName); ck != nil {
			t.Error("CSRF cookie should not be re-set when already present")
		}
	})
}

func TestCSRFTokenHandler(t *testing.T) {
	h := NewCSRFTokenHandler(CSRFConfig{})

	decodeToken := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return body.Token
	}

	t.Run("新規発行したトークンをCookieとJSONで返す", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		ck := findCookie(w.Result(), csrfCookieName)
		if ck == nil {
			t.Fatal("expected CSRF cookie to be set")
		}
		if token := decodeToken(t, w); token == "" || token != ck.Value {
			t.Errorf("response token = %q, cookie = %q; should match", token, ck.Value)
		}
	})

	t.Run("既存トークンをそのまま返す", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-csrf-token"})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if token := decodeToken(t, w); token != "existing-csrf-token" {
			t.Errorf("token = %q, want existing-csrf-token", token)
		}
	})
}

func TestGenerateCSRFToken_IsRandom(t *testing.T) {
	a, err := generateCSRFToken()
	if err != nil {
		t.Fatalf("generateCSRFToken returned error: %v", err)
	}
	b, _ := generateCSRFToken()
	if a == b {
		t.Error("two tokens should differ")
	}
}
