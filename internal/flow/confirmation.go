package flow

import "github.com/hitoshi/costaazul/internal/model"

// SummaryLine は確認画面の1行（項目名と値）。
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Confirmation は送信完了後の確認画面データ。
// 台帳のレコードではなく送信したフォームの値から組み立てる。
type Confirmation struct {
	ID             string        `json:"id"`
	Kind           model.Kind    `json:"kind"`
	Mode           Mode          `json:"mode"`
	Headline       string        `json:"headline"`
	Message        string        `json:"message"`
	Summary        []SummaryLine `json:"summary"`
	Nights         int           `json:"nights,omitempty"`
	EstimatedTotal int           `json:"estimated_total,omitempty"`
	Deposit        *float64      `json:"deposit,omitempty"`
}

func newConfirmation(mode Mode, kind model.Kind, id string) *Confirmation {
	c := &Confirmation{ID: id, Kind: kind, Mode: mode}
	if mode == ModeRequest {
		c.Headline = "¡Solicitud Enviada!"
		c.Message = "Su solicitud ha sido recibida y está pendiente de aprobación"
	} else {
		c.Headline = "¡Reserva Confirmada!"
		c.Message = "La reserva ha sido registrada correctamente"
	}
	return c
}

// add は値が空でない場合のみ行を追加する。
func (c *Confirmation) add(label, value string) {
	if value == "" {
		return
	}
	c.Summary = append(c.Summary, SummaryLine{Label: label, Value: value})
}

func (c *Confirmation) setDeposit(amount *float64) {
	if amount == nil {
		return
	}
	v := *amount
	c.Deposit = &v
}
