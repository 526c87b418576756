package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// identitySlotRow はidentity_slotsテーブルの1行。
type identitySlotRow struct {
	SessionID string    `db:"session_id"`
	SlotKey   string    `db:"slot_key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresIdentitySlotRepo はPostgreSQLを使用したIdentityスロットリポジトリ。
type PostgresIdentitySlotRepo struct {
	db *sqlx.DB
}

// NewPostgresIdentitySlotRepo はPostgresIdentitySlotRepoを生成する。
// dbがnilの場合は接続を持たないリポジトリを返す（テスト用）。
func NewPostgresIdentitySlotRepo(db *sql.DB) *PostgresIdentitySlotRepo {
	if db == nil {
		return &PostgresIdentitySlotRepo{}
	}
	return &PostgresIdentitySlotRepo{db: sqlx.NewDb(db, "postgres")}
}

// Get は指定セッション・キーの値を取得する。見つからない場合はnilを返す。
func (r *PostgresIdentitySlotRepo) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var row identitySlotRow
	err := r.db.GetContext(ctx, &row,
		`SELECT session_id, slot_key, value, updated_at
		 FROM identity_slots
		 WHERE session_id = $1 AND slot_key = $2`,
		sessionID, key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity slot: %w", err)
	}
	return row.Value, nil
}

// Put は値を保存する。既存の値は上書きし、updated_atを更新する。
func (r *PostgresIdentitySlotRepo) Put(ctx context.Context, sessionID, key string, value []byte) error {
	row := identitySlotRow{
		SessionID: sessionID,
		SlotKey:   key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO identity_slots (session_id, slot_key, value, updated_at)
		 VALUES (:session_id, :slot_key, :value, :updated_at)
		 ON CONFLICT (session_id, slot_key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		row,
	)
	if err != nil {
		return fmt.Errorf("failed to put identity slot: %w", err)
	}
	return nil
}

// Delete は値を削除する。
func (r *PostgresIdentitySlotRepo) Delete(ctx context.Context, sessionID, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM identity_slots WHERE session_id = $1 AND slot_key = $2`,
		sessionID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete identity slot: %w", err)
	}
	return nil
}

// DeleteUpdatedBefore は指定時刻より前に更新されたスロットを削除する。
func (r *PostgresIdentitySlotRepo) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM identity_slots WHERE updated_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale identity slots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted identity slots: %w", err)
	}
	return n, nil
}

// compile-time interface check
var _ IdentitySlotRepository = (*PostgresIdentitySlotRepo)(nil)
