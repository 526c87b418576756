// Package cleanup は放置されたIdentityスロットの削除ジョブを提供する。
// 最終更新から保持期間（デフォルト7日）を超過したスロットを削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pruner は指定時刻より前に更新されたスロットを削除するインターフェース。
// repository.IdentitySlotRepository が満たす。
type Pruner interface {
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// CleanupJob は保持期間を超過したIdentityスロットの削除ジョブ。
// 冪等で、削除対象がない場合もエラーにならない。
type CleanupJob struct {
	pruner    Pruner
	logger    *slog.Logger
	now       func() time.Time
	Retention time.Duration // スロットの保持期間（デフォルト: 7日）
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(pruner Pruner, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		pruner:    pruner,
		logger:    logger,
		now:       time.Now,
		Retention: 7 * 24 * time.Hour,
	}
}

// Run は保持期間を超過したスロットを削除する。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := j.now()
	cutoff := start.Add(-j.Retention)

	deletedCount, err := j.pruner.DeleteUpdatedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("identity slot cleanup failed",
			slog.String("error", err.Error()),
			slog.String("retention", j.Retention.String()),
		)
		return fmt.Errorf("identity slot cleanup: %w", err)
	}

	j.logger.Info("identity slot cleanup completed",
		slog.Int64("deleted_count", deletedCount),
		slog.String("retention", j.Retention.String()),
		slog.Time("cutoff", cutoff),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}
