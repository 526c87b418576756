package flow

import (
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/timewindow"
)

// CheckEventHours はイベント開始/終了時刻をインライン検証する。
func CheckEventHours(start, end string) []model.FieldError {
	return toFieldErrors(timewindow.Check(start, end, timewindow.EventRules.Inline()))
}

// CheckStayHours はチェックイン/アウト時刻をモードに応じたルールでインライン検証する。
func CheckStayHours(mode Mode, checkIn, checkOut string) []model.FieldError {
	rules := timewindow.SelfServiceStayRules
	if mode == ModeReserve {
		rules = timewindow.StaffStayRules
	}
	return toFieldErrors(timewindow.Check(checkIn, checkOut, rules.Inline()))
}

func toFieldErrors(vs []timewindow.Violation) []model.FieldError {
	out := make([]model.FieldError, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.FieldError())
	}
	return out
}
