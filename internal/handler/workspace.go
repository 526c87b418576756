package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/middleware"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/workspace"
)

// Workspaces はセッションごとの作業状態へのアクセスを提供する。
// workspace.Store が実装する。
type Workspaces interface {
	With(ctx context.Context, sessionID string, fn func(*workspace.State) error) error
}

// Recorder はハンドラーが記録するメトリクスのインターフェース。
type Recorder interface {
	RecordLogin(role string)
	RecordDeposit(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLogin(role string)      {}
func (nopRecorder) RecordDeposit(outcome string) {}

// withSession はリクエストのセッションのワークスペースでfnを実行する。
// エラーはレスポンスとして書き込み、falseを返す。
func withSession(w http.ResponseWriter, r *http.Request, ws Workspaces, fn func(*workspace.State) error) bool {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return false
	}
	if err := ws.With(r.Context(), sessionID, fn); err != nil {
		handleServiceError(w, err)
		return false
	}
	return true
}

// withPermit はwithSessionに加えて、ゲートの状態と役割がactionを許可する場合のみfnを実行する。
func withPermit(w http.ResponseWriter, r *http.Request, ws Workspaces, action auth.Action, fn func(st *workspace.State, identity model.Identity) error) bool {
	return withSession(w, r, ws, func(st *workspace.State) error {
		identity, state := st.Gate.Current()
		if err := auth.Permit(identity, state, action); err != nil {
			return err
		}
		return fn(st, *identity)
	})
}
