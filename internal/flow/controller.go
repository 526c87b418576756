// Package flow は予約ウィザードの入力検証・送信・確認画面データの生成を担う。
//
// スタッフによる直接予約（ModeReserve）と客によるセルフサービス申請（ModeRequest）の
// 2つのモードがあり、同じ台帳に同じ形で記録される。違いは必須項目と時刻ルールのみ。
package flow

import (
	"errors"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/costaazul/internal/catalog"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/security"
	"github.com/hitoshi/costaazul/internal/timewindow"
)

// Mode はウィザードのモード。
type Mode string

const (
	ModeReserve Mode = "reserve" // スタッフによる直接予約
	ModeRequest Mode = "request" // 客によるセルフサービス申請
)

// Valid は既知のモードかどうかを返す。
func (m Mode) Valid() bool {
	return m == ModeReserve || m == ModeRequest
}

// 入力欄名
const (
	FieldEventDate      = "event_date"
	FieldSalonID        = "salon_id"
	FieldPartySize      = "party_size"
	FieldRequesterName  = "requester_name"
	FieldRequesterEmail = "requester_email"
	FieldRequesterPhone = "requester_phone"
	FieldDescription    = "description"
	FieldDepositAmount  = "deposit_amount"
	FieldCheckIn        = "check_in"
	FieldCheckOut       = "check_out"
	FieldRoomTypeID     = "room_type_id"
	FieldDocument       = "document"
	FieldGuestCount     = "guest_count"
)

// Recorder は送信結果の計測先。metrics.Collectorが満たす。
type Recorder interface {
	ReservationCreated(kind, mode string)
	ValidationFailed(field, reason string)
}

type nopRecorder struct{}

func (nopRecorder) ReservationCreated(kind, mode string)  {}
func (nopRecorder) ValidationFailed(field, reason string) {}

// Option はControllerの構築オプション。
type Option func(*Controller)

// WithRecorder は計測先を指定する。
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithSanitizer は自由入力欄のサニタイザを差し替える。
func WithSanitizer(s security.TextSanitizer) Option {
	return func(c *Controller) { c.sanitizer = s }
}

// Controller はフォームの検証と台帳への送信を行う。状態を持たず、並行に呼び出せる。
type Controller struct {
	catalog   *catalog.Catalog
	sanitizer security.TextSanitizer
	recorder  Recorder
}

// NewController はControllerを生成する。catがnilの場合はpanicする。
func NewController(cat *catalog.Catalog, opts ...Option) *Controller {
	if cat == nil {
		panic("flow: NewController requires a non-nil Catalog")
	}
	c := &Controller{
		catalog:   cat,
		sanitizer: security.NewTextSanitizer(),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fieldErrors は入力欄エラーを蓄積する。inlineの場合は未入力エラーを記録しない。
type fieldErrors struct {
	inline bool
	clean  security.TextSanitizer
	list   []model.FieldError
}

func (c *Controller) newFieldErrors(inline bool) *fieldErrors {
	return &fieldErrors{inline: inline, clean: c.sanitizer}
}

func (f *fieldErrors) add(field, reason, message string) {
	if f.inline && reason == model.ReasonRequired {
		return
	}
	f.list = append(f.list, model.FieldError{Field: field, Reason: reason, Message: message})
}

// required は前後の空白を除いた値を返し、空なら未入力エラーを記録する。
func (f *fieldErrors) required(field, value, message string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		f.add(field, model.ReasonRequired, message)
	}
	return v
}

// text は必須の自由入力欄をサニタイズしてから検証する。タグだけの入力は未入力として扱う。
func (f *fieldErrors) text(field, value, message string) string {
	return f.required(field, f.clean.Sanitize(value), message)
}

func (f *fieldErrors) email(value string) string {
	v := f.required(FieldRequesterEmail, value, "Ingrese su correo electrónico")
	if v == "" {
		return ""
	}
	if _, err := mail.ParseAddress(v); err != nil {
		f.add(FieldRequesterEmail, model.ReasonMalformed, "Correo electrónico inválido")
	}
	return v
}

// date は YYYY-MM-DD 形式の日付欄を検証する。
func (f *fieldErrors) date(field, value, message string) (string, time.Time, bool) {
	v := f.required(field, value, message)
	if v == "" {
		return "", time.Time{}, false
	}
	d, err := time.Parse(model.DateLayout, v)
	if err != nil {
		f.add(field, model.ReasonMalformed, "Fecha inválida (AAAA-MM-DD)")
		return v, time.Time{}, false
	}
	return v, d, true
}

// count は [1, max] の整数欄を検証する。maxが0以下なら上限なし。
func (f *fieldErrors) count(field, value string, max int, message string) int {
	v := f.required(field, value, message)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.add(field, model.ReasonInvalidNumber, "Ingrese un número entero")
		return 0
	}
	if n < 1 || (max > 0 && n > max) {
		f.add(field, model.ReasonOutOfRange, rangeMessage(max))
		return 0
	}
	return n
}

func rangeMessage(max int) string {
	if max > 0 {
		return "Debe estar entre 1 y " + strconv.Itoa(max)
	}
	return "Debe ser al menos 1"
}

// deposit は前金欄を検証する。フラグが立っていない、または金額が空の場合は記録なし（nil）。
func (f *fieldErrors) deposit(has bool, raw string) *float64 {
	if !has {
		return nil
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		f.add(FieldDepositAmount, model.ReasonInvalidNumber, "Ingrese un monto válido")
		return nil
	}
	if amount < 0 {
		f.add(FieldDepositAmount, model.ReasonNegative, "El monto no puede ser negativo")
		return nil
	}
	return &amount
}

// hours は時刻ルールを適用する。inlineでは全違反、送信時は最初の違反のみを記録する。
func (f *fieldErrors) hours(start, end string, rules timewindow.Rules) {
	if f.inline {
		for _, v := range timewindow.Check(start, end, rules.Inline()) {
			f.list = append(f.list, v.FieldError())
		}
		return
	}
	err := timewindow.Validate(start, end, rules)
	var v *timewindow.Violation
	if errors.As(err, &v) {
		f.list = append(f.list, v.FieldError())
	}
}

// fail は送信時の検証エラーを計測し、APIErrorにまとめる。
func (c *Controller) fail(fields []model.FieldError) error {
	for _, fe := range fields {
		c.recorder.ValidationFailed(fe.Field, fe.Reason)
	}
	return model.NewValidationError(fields)
}

// Nights はチェックインからチェックアウトまでの泊数を返す（端数切り上げ）。
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}
