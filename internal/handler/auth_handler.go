// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"net/http"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/middleware"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/workspace"
)

// AuthHandler はログイン/ログアウトと現在のIdentityを扱うHTTPハンドラー。
type AuthHandler struct {
	workspaces Workspaces
	recorder   Recorder
}

// NewAuthHandler はAuthHandlerを生成する。recorderがnilの場合は記録しない。
func NewAuthHandler(workspaces Workspaces, recorder Recorder) *AuthHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AuthHandler{
		workspaces: workspaces,
		recorder:   recorder,
	}
}

type loginRequest struct {
	Email string `json:"email"`
}

// sessionResponse はログイン状態のAPIレスポンス。
type sessionResponse struct {
	State    string           `json:"state"`
	Identity *model.Identity  `json:"identity"`
	Menu     []auth.MenuItem  `json:"menu,omitempty"`
	Navigate *auth.Navigation `json:"navigate,omitempty"`
}

// Login はメールアドレス（または名前）からIdentityを導出してログインする。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	var (
		identity model.Identity
		nav      auth.Navigation
	)
	ok := withSession(w, r, h.workspaces, func(st *workspace.State) error {
		var err error
		identity, nav, err = st.Gate.Login(r.Context(), req.Email)
		return err
	})
	if !ok {
		return
	}

	h.recorder.RecordLogin(string(identity.Role))
	writeJSON(w, http.StatusOK, sessionResponse{
		State:    auth.StateAuthenticated.String(),
		Identity: &identity,
		Menu:     auth.Menu(identity.Role),
		Navigate: &nav,
	})
}

// Logout はIdentityと永続化スロットを消去する。予約台帳はセッションが続く限り保持される。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var nav auth.Navigation
	ok := withSession(w, r, h.workspaces, func(st *workspace.State) error {
		var err error
		nav, err = st.Gate.Logout(r.Context())
		return err
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		State:    auth.StateAnonymous.String(),
		Navigate: &nav,
	})
}

// Me は現在のゲート状態とIdentityを返す。Loading中も200で状態のみ返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	// 発行したばかりのセッションにはワークスペースを作らない
	if middleware.IsNewSession(r.Context()) {
		writeJSON(w, http.StatusOK, sessionResponse{State: auth.StateAnonymous.String()})
		return
	}

	var resp sessionResponse
	ok := withSession(w, r, h.workspaces, func(st *workspace.State) error {
		identity, state := st.Gate.Current()
		resp.State = state.String()
		if identity != nil {
			resp.Identity = identity
			resp.Menu = auth.Menu(identity.Role)
		}
		return nil
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
