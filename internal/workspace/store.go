// Package workspace はブラウザセッションごとの作業状態（ゲートと予約台帳）を保持する。
//
// 1つのセッションに対する呼び出しは直列化されるため、
// booking.Registry と auth.Gate は内部でロックを持たない。
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/booking"
)

// ErrMissingSession はセッションIDが空の場合に返される。
var ErrMissingSession = errors.New("workspace: session id is required")

// State は1セッション分の作業状態。
type State struct {
	Gate     *auth.Gate
	Registry *booking.Registry
}

// Factory はセッションIDから新しいStateを生成する。
type Factory func(sessionID string) (*State, error)

// Config はStoreの設定。
type Config struct {
	TTL             time.Duration // 最終アクセスからの保持期間
	CleanupInterval time.Duration // 期限切れエントリの走査間隔
}

// DefaultConfig は既定の設定を返す。
func DefaultConfig() Config {
	return Config{
		TTL:             2 * time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

type entry struct {
	mu         sync.Mutex
	state      *State
	lastAccess time.Time
}

// Store はセッションIDごとのStateを管理する。
type Store struct {
	config  Config
	factory Factory
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStore は新しいStoreを生成し、バックグラウンドで期限切れエントリの削除を開始する。
// factoryがnilの場合はpanicする。
func NewStore(config Config, factory Factory, logger *slog.Logger) *Store {
	if factory == nil {
		panic("workspace: NewStore requires a non-nil Factory")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	s := &Store{
		config:  config,
		factory: factory,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。複数回呼んでもよい。
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// With はセッションのStateを取得（なければ生成）し、排他的にfnを実行する。
// ゲートの復元に失敗した場合もfnは実行され、ゲートはLoading状態のままとなる。
func (s *Store) With(ctx context.Context, sessionID string, fn func(*State) error) error {
	if sessionID == "" {
		return ErrMissingSession
	}

	e, err := s.getOrCreate(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Gate.Restore(ctx); err != nil {
		s.logger.Warn("identity restore failed, gate stays loading",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	return fn(e.state)
}

// Drop はセッションのStateを破棄する。
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
}

// Len は保持しているState数を返す。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) getOrCreate(sessionID string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sessionID]; ok {
		e.lastAccess = s.now()
		return e, nil
	}

	state, err := s.factory(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	if state == nil || state.Gate == nil || state.Registry == nil {
		panic("workspace: Factory returned an incomplete State")
	}

	e := &entry{state: state, lastAccess: s.now()}
	s.entries[sessionID] = e
	return e, nil
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup は最終アクセスからTTLを超えたエントリを削除する。TTLが0以下の場合は何もしない。
func (s *Store) cleanup() int {
	if s.config.TTL <= 0 {
		return 0
	}

	now := s.now()
	removed := 0

	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.lastAccess) > s.config.TTL {
			delete(s.entries, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("evicted idle workspaces", slog.Int("count", removed))
	}
	return removed
}
