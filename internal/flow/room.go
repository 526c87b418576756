package flow

import (
	"strconv"
	"time"

	"github.com/hitoshi/costaazul/internal/booking"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/timewindow"
)

// RoomForm は客室予約/申請フォームの入力値。
type RoomForm struct {
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	RoomTypeID     string `json:"room_type_id"`
	PetFriendly    bool   `json:"pet_friendly"`
	PetName        string `json:"pet_name"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone"`
	Document       string `json:"document"`    // スタッフのみ必須。保存しない
	GuestCount     string `json:"guest_count"` // スタッフのみ必須。保存しない
	CheckInTime    string `json:"check_in_time"`
	CheckOutTime   string `json:"check_out_time"`
	HasDeposit     bool   `json:"has_deposit"`
	DepositAmount  string `json:"deposit_amount"`
}

type roomResult struct {
	input    booking.RoomInput
	document string
	guests   int
	nights   int
	price    int
}

// CheckRoom は入力途中のフォームを検証する。未入力の欄はエラーにしない。
func (c *Controller) CheckRoom(mode Mode, form RoomForm) []model.FieldError {
	_, fields := c.validateRoom(mode, form, true)
	return fields
}

// SubmitRoom はフォームを再検証し、台帳に追加して確認画面データを返す。
func (c *Controller) SubmitRoom(reg *booking.Registry, mode Mode, form RoomForm) (*Confirmation, error) {
	if reg == nil {
		panic("flow: SubmitRoom requires a non-nil Registry")
	}
	if !mode.Valid() {
		return nil, model.NewInvalidRequestError()
	}

	res, fields := c.validateRoom(mode, form, false)
	if len(fields) > 0 {
		return nil, c.fail(fields)
	}

	rec, err := reg.AppendRoom(res.input)
	if err != nil {
		return nil, err
	}
	c.recorder.ReservationCreated(string(model.KindRoom), string(mode))

	return roomConfirmation(mode, rec.ID, res), nil
}

func (c *Controller) validateRoom(mode Mode, form RoomForm, inline bool) (roomResult, []model.FieldError) {
	f := c.newFieldErrors(inline)
	var res roomResult
	in := &res.input

	var (
		checkIn, checkOut     time.Time
		checkInOK, checkOutOK bool
	)
	in.CheckIn, checkIn, checkInOK = f.date(FieldCheckIn, form.CheckIn, "Seleccione la fecha de llegada")
	in.CheckOut, checkOut, checkOutOK = f.date(FieldCheckOut, form.CheckOut, "Seleccione la fecha de salida")
	if checkInOK && checkOutOK {
		if !checkOut.After(checkIn) {
			f.add(FieldCheckOut, model.ReasonEndNotAfterStart, "La fecha de salida debe ser posterior a la de llegada")
		} else {
			res.nights = Nights(checkIn, checkOut)
		}
	}

	capacity := 0
	switch rt, ok := c.catalog.RoomType(form.RoomTypeID); {
	case form.RoomTypeID == "":
		f.add(FieldRoomTypeID, model.ReasonRequired, "Seleccione un tipo de habitación")
	case !ok:
		f.add(FieldRoomTypeID, model.ReasonUnknown, "El tipo de habitación no existe")
	default:
		in.RoomTypeID = rt.ID
		in.RoomTypeName = rt.Name
		capacity = rt.Capacity
		res.price = rt.NightlyPrice
		if mode == ModeRequest {
			res.price = rt.RequestPrice
		}
	}

	in.PetFriendly = form.PetFriendly
	if form.PetFriendly {
		in.PetName = c.sanitizer.Sanitize(form.PetName)
	}

	in.RequesterName = f.text(FieldRequesterName, form.RequesterName, "Ingrese el nombre")
	in.RequesterEmail = f.email(form.RequesterEmail)
	in.RequesterPhone = f.text(FieldRequesterPhone, form.RequesterPhone, "Ingrese el teléfono")

	rules := timewindow.SelfServiceStayRules
	if mode == ModeReserve {
		res.document = f.text(FieldDocument, form.Document, "Ingrese el documento de identidad")
		res.guests = f.count(FieldGuestCount, form.GuestCount, capacity, "Ingrese el número de huéspedes")
		rules = timewindow.StaffStayRules
	}
	in.CheckInTime = form.CheckInTime
	in.CheckOutTime = form.CheckOutTime
	f.hours(form.CheckInTime, form.CheckOutTime, rules)

	in.Deposit = f.deposit(form.HasDeposit, form.DepositAmount)

	return res, f.list
}

func roomConfirmation(mode Mode, id string, res roomResult) *Confirmation {
	in := res.input
	conf := newConfirmation(mode, model.KindRoom, id)
	conf.add("Habitación", in.RoomTypeName)
	conf.add("Llegada", in.CheckIn)
	conf.add("Salida", in.CheckOut)
	conf.add("Hora de check-in", in.CheckInTime)
	conf.add("Hora de check-out", in.CheckOutTime)
	conf.add("Nombre", in.RequesterName)
	conf.add("Correo", in.RequesterEmail)
	conf.add("Teléfono", in.RequesterPhone)
	conf.add("Documento", res.document)
	if res.guests > 0 {
		conf.add("Huéspedes", strconv.Itoa(res.guests))
	}
	if in.PetFriendly {
		conf.add("Mascota", in.PetName)
	}
	conf.Nights = res.nights
	conf.EstimatedTotal = res.price * res.nights
	conf.setDeposit(in.Deposit)
	return conf
}
