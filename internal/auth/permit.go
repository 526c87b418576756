package auth

import "github.com/hitoshi/costaazul/internal/model"

// Action は役割判定の対象となる操作。
type Action string

const (
	ActionDashboard     Action = "dashboard"
	ActionRequest       Action = "request"        // セルフサービス申請
	ActionReserve       Action = "reserve"        // スタッフによる直接予約
	ActionList          Action = "list"           // 予約一覧
	ActionRecordDeposit Action = "record_deposit" // 前金の記録
)

// operatorOnly はスタッフのみ実行できる操作。
var operatorOnly = map[Action]bool{
	ActionReserve:       true,
	ActionList:          true,
	ActionRecordDeposit: true,
}

// Permit はゲートの状態と役割から操作の可否を判定する。
// Loading中は判定を保留するエラー、未ログインは401相当、役割不足は403相当のエラーを返す。
func Permit(identity *model.Identity, state State, action Action) error {
	switch state {
	case StateLoading:
		return model.NewGateLoadingError()
	case StateAnonymous:
		return model.NewUnauthorizedError()
	}
	if identity == nil {
		return model.NewUnauthorizedError()
	}
	if operatorOnly[action] && !identity.IsOperator() {
		return model.NewForbiddenError(identity.Role)
	}
	return nil
}

// MenuItem はダッシュボードのメニュー項目。
type MenuItem struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Menu は役割に応じたダッシュボードのメニューを返す。
func Menu(role model.Role) []MenuItem {
	if role == model.RoleOperator {
		return []MenuItem{
			{Title: "Reservar salón", Href: "/reservar-salon/fecha"},
			{Title: "Reservar habitación", Href: "/reservar-habitacion/fechas"},
			{Title: "Listado de reservas", Href: "/lista-reservas"},
		}
	}
	return []MenuItem{
		{Title: "Solicitar salón", Href: "/solicitar-salon"},
		{Title: "Solicitar habitación", Href: "/solicitar-habitacion"},
	}
}
