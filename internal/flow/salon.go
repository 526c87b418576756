package flow

import (
	"strconv"

	"github.com/hitoshi/costaazul/internal/booking"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/timewindow"
)

// SalonForm はサロン予約/申請フォームの入力値。数値欄は入力どおりの文字列で受け取る。
type SalonForm struct {
	EventDate      string `json:"event_date"`
	SalonID        int    `json:"salon_id"`
	PartySize      string `json:"party_size"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone"` // スタッフのみ必須。確認画面に表示するだけで保存しない
	Description    string `json:"description"`
	HasDeposit     bool   `json:"has_deposit"`
	DepositAmount  string `json:"deposit_amount"`
	EventStart     string `json:"event_start"`
	EventEnd       string `json:"event_end"`
}

type salonResult struct {
	input booking.SalonInput
	phone string
}

// CheckSalon は入力途中のフォームを検証する。未入力の欄はエラーにしない。
func (c *Controller) CheckSalon(mode Mode, form SalonForm) []model.FieldError {
	_, fields := c.validateSalon(mode, form, true)
	return fields
}

// SubmitSalon はフォームを再検証し、台帳に追加して確認画面データを返す。
// 検証エラーの場合は台帳を変更せず、VALIDATION_FAILEDのAPIErrorを返す。
func (c *Controller) SubmitSalon(reg *booking.Registry, mode Mode, form SalonForm) (*Confirmation, error) {
	if reg == nil {
		panic("flow: SubmitSalon requires a non-nil Registry")
	}
	if !mode.Valid() {
		return nil, model.NewInvalidRequestError()
	}

	res, fields := c.validateSalon(mode, form, false)
	if len(fields) > 0 {
		return nil, c.fail(fields)
	}

	rec, err := reg.AppendSalon(res.input)
	if err != nil {
		return nil, err
	}
	c.recorder.ReservationCreated(string(model.KindSalon), string(mode))

	return salonConfirmation(mode, rec.ID, res), nil
}

func (c *Controller) validateSalon(mode Mode, form SalonForm, inline bool) (salonResult, []model.FieldError) {
	f := c.newFieldErrors(inline)
	var in booking.SalonInput

	in.EventDate, _, _ = f.date(FieldEventDate, form.EventDate, "Seleccione la fecha del evento")

	capacity := 0
	switch salon, ok := c.catalog.Salon(form.SalonID); {
	case form.SalonID == 0:
		f.add(FieldSalonID, model.ReasonRequired, "Seleccione un salón")
	case !ok:
		f.add(FieldSalonID, model.ReasonUnknown, "El salón seleccionado no existe")
	case !salon.Available:
		f.add(FieldSalonID, model.ReasonUnavailable, salon.Name+" no está disponible")
	default:
		in.SalonID = salon.ID
		in.SalonName = salon.Name
		capacity = salon.Capacity
	}

	in.PartySize = f.count(FieldPartySize, form.PartySize, capacity, "Ingrese el número de personas")
	in.RequesterName = f.text(FieldRequesterName, form.RequesterName, "Ingrese el nombre")
	in.RequesterEmail = f.email(form.RequesterEmail)

	var phone string
	if mode == ModeReserve {
		phone = f.text(FieldRequesterPhone, form.RequesterPhone, "Ingrese el teléfono")
	}

	in.Description = c.sanitizer.Sanitize(form.Description)
	in.Deposit = f.deposit(form.HasDeposit, form.DepositAmount)

	in.EventStart = form.EventStart
	in.EventEnd = form.EventEnd
	f.hours(form.EventStart, form.EventEnd, timewindow.EventRules)

	return salonResult{input: in, phone: phone}, f.list
}

func salonConfirmation(mode Mode, id string, res salonResult) *Confirmation {
	in := res.input
	conf := newConfirmation(mode, model.KindSalon, id)
	conf.add("Salón", in.SalonName)
	conf.add("Fecha", in.EventDate)
	conf.add("Horario", in.EventStart+" – "+in.EventEnd)
	conf.add("Personas", strconv.Itoa(in.PartySize))
	conf.add("Nombre", in.RequesterName)
	conf.add("Correo", in.RequesterEmail)
	conf.add("Teléfono", res.phone)
	conf.add("Descripción", in.Description)
	conf.setDeposit(in.Deposit)
	return conf
}
