package auth

import (
	"context"
	"fmt"

	"github.com/hitoshi/costaazul/internal/repository"
)

// MemorySlot はプロセス内メモリに値を保持するSlot。
// データベース未設定時とテストで使用する。
type MemorySlot struct {
	data []byte
}

// NewMemorySlot は初期値を持つMemorySlotを生成する。
func NewMemorySlot(initial []byte) *MemorySlot {
	return &MemorySlot{data: initial}
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	return s.data, nil
}

func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.data = nil
	return nil
}

// RepositorySlot はセッションIDごとにリポジトリへ保存するSlot。
type RepositorySlot struct {
	repo      repository.IdentitySlotRepository
	sessionID string
	key       string
}

// NewRepositorySlot はRepositorySlotを生成する。
func NewRepositorySlot(repo repository.IdentitySlotRepository, sessionID string) *RepositorySlot {
	return &RepositorySlot{repo: repo, sessionID: sessionID, key: SlotKey}
}

func (s *RepositorySlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.repo.Get(ctx, s.sessionID, s.key)
	if err != nil {
		return nil, fmt.Errorf("slot read: %w", err)
	}
	return data, nil
}

func (s *RepositorySlot) Write(ctx context.Context, data []byte) error {
	if err := s.repo.Put(ctx, s.sessionID, s.key, data); err != nil {
		return fmt.Errorf("slot write: %w", err)
	}
	return nil
}

func (s *RepositorySlot) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.sessionID, s.key); err != nil {
		return fmt.Errorf("slot clear: %w", err)
	}
	return nil
}

var (
	_ Slot = (*MemorySlot)(nil)
	_ Slot = (*RepositorySlot)(nil)
)
