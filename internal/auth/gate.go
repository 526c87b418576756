// Package auth はログイン中の利用者（Identity）の保持と、役割に応じた画面アクセス判定を提供する。
//
// ログインはメールアドレスから役割を導出するだけの簡易なもので、
// パスワード検証などの認証は行わない。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/costaazul/internal/model"
)

// SlotKey は永続化スロットのキー。
const SlotKey = "hotel_user"

// DefaultOperatorEmail はスタッフ権限を与えるメールアドレスの既定値。
const DefaultOperatorEmail = "operario@costaazul.cl"

// State はゲートの状態。
// Loading の間は画面を描画せず、Anonymous なら入口へ戻し、Authenticated なら描画する。
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

// String は状態名を返す。
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Navigation はログイン/ログアウト後の遷移先。
type Navigation string

const (
	NavDashboard Navigation = "/dashboard"
	NavEntry     Navigation = "/"
)

// Slot はIdentityを保存する永続化スロット。
type Slot interface {
	// Read は保存済みの値を返す。未保存の場合はnilを返す。
	Read(ctx context.Context) ([]byte, error)
	// Write は値を保存する。
	Write(ctx context.Context, data []byte) error
	// Clear は値を削除する。
	Clear(ctx context.Context) error
}

// GateConfig はゲートの設定。
type GateConfig struct {
	OperatorEmail string
	Logger        *slog.Logger // nilの場合はslog.Default()
}

// Gate は高々1つのIdentityを保持する。
type Gate struct {
	slot          Slot
	operatorEmail string
	logger        *slog.Logger
	identity      *model.Identity
	loaded        bool
}

// NewGate はGateを生成する。slotがnilの場合はpanicする。
// 生成直後はLoading状態で、Restoreを呼ぶまでIdentityは確定しない。
func NewGate(slot Slot, cfg GateConfig) *Gate {
	if slot == nil {
		panic("auth: NewGate requires a non-nil Slot")
	}
	operator := strings.ToLower(strings.TrimSpace(cfg.OperatorEmail))
	if operator == "" {
		operator = DefaultOperatorEmail
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{slot: slot, operatorEmail: operator, logger: logger}
}

// Restore は永続化スロットを1回だけ読み込み、Loading状態を抜ける。
// 読み込みに失敗した場合はLoadingのままエラーを返し、再試行できる。
// 復元済みの場合は何もしない。
func (g *Gate) Restore(ctx context.Context) error {
	if g.loaded {
		return nil
	}

	data, err := g.slot.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read identity slot: %w", err)
	}

	g.identity = g.decodeIdentity(data)
	g.loaded = true
	return nil
}

// Current は現在のIdentityと状態を返す。
func (g *Gate) Current() (*model.Identity, State) {
	if !g.loaded {
		return nil, StateLoading
	}
	if g.identity == nil {
		return nil, StateAnonymous
	}
	id := *g.identity
	return &id, StateAuthenticated
}

// Login は入力値からIdentityを導出して現在の利用者を置き換え、保存する。
// 入力はtrimと小文字化を行い、スタッフ用アドレスと一致すればoperator、それ以外はclientとする。
// Restore前に呼ばれた場合はスロットの内容より新しいログインを優先する。
func (g *Gate) Login(ctx context.Context, emailOrName string) (model.Identity, Navigation, error) {
	normalized := strings.ToLower(strings.TrimSpace(emailOrName))
	if normalized == "" {
		return model.Identity{}, "", model.NewLoginRequiredError()
	}

	role := model.RoleClient
	if normalized == g.operatorEmail {
		role = model.RoleOperator
	}
	id := model.Identity{Name: normalized, Role: role}

	data, err := json.Marshal(id)
	if err != nil {
		return model.Identity{}, "", fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := g.slot.Write(ctx, data); err != nil {
		return model.Identity{}, "", fmt.Errorf("failed to persist identity: %w", err)
	}

	g.identity = &id
	g.loaded = true

	g.logger.Info("user logged in", slog.String("role", string(role)))
	return id, NavDashboard, nil
}

// Logout はIdentityを破棄し、スロットを削除する。
func (g *Gate) Logout(ctx context.Context) (Navigation, error) {
	if err := g.slot.Clear(ctx); err != nil {
		return "", fmt.Errorf("failed to clear identity slot: %w", err)
	}
	g.identity = nil
	g.loaded = true

	g.logger.Info("user logged out")
	return NavEntry, nil
}

// decodeIdentity はスロットの値を復元する。壊れた値や未知の役割は未ログイン扱いにする。
func (g *Gate) decodeIdentity(data []byte) *model.Identity {
	if len(data) == 0 {
		return nil
	}
	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		g.logger.Warn("discarding undecodable identity slot", slog.String("error", err.Error()))
		return nil
	}
	if id.Name == "" || !id.Role.Valid() {
		g.logger.Warn("discarding invalid identity slot", slog.String("role", string(id.Role)))
		return nil
	}
	return &id
}
