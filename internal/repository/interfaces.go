// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"
)

// IdentitySlotRepository はブラウザセッションごとのIdentityスロットの永続化インターフェース。
// 値は不透明なバイト列として扱い、形式は呼び出し側が決める。
type IdentitySlotRepository interface {
	// Get は指定セッション・キーの値を取得する。見つからない場合はnilを返す。
	Get(ctx context.Context, sessionID, key string) ([]byte, error)

	// Put は値を保存する。既存の値は上書きする。
	Put(ctx context.Context, sessionID, key string, value []byte) error

	// Delete は値を削除する。存在しない場合もエラーにしない。
	Delete(ctx context.Context, sessionID, key string) error

	// DeleteUpdatedBefore は指定時刻より前に更新されたスロットを削除し、削除件数を返す。
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}
