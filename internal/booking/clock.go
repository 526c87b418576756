package booking

import "time"

// Clock は現在時刻の取得を抽象化する。テストでは固定時刻を注入する。
type Clock interface {
	Now() time.Time
}

// RealClock はシステム時刻を返すClock。
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock は常に同じ時刻を返すClock。
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
