// Package booking は予約台帳（メモリ上の予約一覧）と、その追加・前金記録の操作を提供する。
//
// Registry は単一の所有者から逐次的に操作される前提で、内部でロックを取らない。
// HTTPリクエストをまたいだ排他はworkspaceパッケージが担う。
package booking

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/hitoshi/costaazul/internal/model"
)

// SalonInput はサロン予約の追加時に呼び出し側が渡すフィールド。
// ID・ステータス・作成日は台帳が採番する。
type SalonInput struct {
	SalonID        int
	SalonName      string
	EventDate      string
	EventStart     string
	EventEnd       string
	PartySize      int
	RequesterName  string
	RequesterEmail string
	Description    string
	Deposit        *float64
}

// RoomInput は客室予約の追加時に呼び出し側が渡すフィールド。
// チェックアウト日 > チェックイン日 は上流（日付選択）で保証され、ここでは再検証しない。
type RoomInput struct {
	RoomTypeID     string
	RoomTypeName   string
	CheckIn        string
	CheckOut       string
	CheckInTime    string
	CheckOutTime   string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	PetFriendly    bool
	PetName        string
	Deposit        *float64
}

// DepositOutcome は前金記録の結果。
type DepositOutcome string

const (
	// DepositApplied は前金を記録しステータスを確定にしたことを示す。
	DepositApplied DepositOutcome = "applied"
	// DepositIgnored は対象IDが存在せず何も変更しなかったことを示す。
	DepositIgnored DepositOutcome = "ignored"
)

// Registry はメモリ上の予約台帳。新しい順（先頭追加）で保持する。
type Registry struct {
	reservations []model.Reservation
	clock        Clock
	newID        func() string
	logger       *slog.Logger
}

// Option はRegistryの構築オプション。
type Option func(*Registry)

// WithClock は作成日の算出に使う時計を差し替える。
func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithIDGenerator はID本体の生成関数を差し替える。種別プレフィックスは台帳が付与する。
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithSeed は初期データを投入する。先頭が最新として扱われる。
func WithSeed(seed []model.Reservation) Option {
	return func(r *Registry) {
		for _, s := range seed {
			r.reservations = append(r.reservations, model.Clone(s))
		}
	}
}

// WithLogger はログ出力先を指定する。
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry は空の台帳を生成する。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:  RealClock{},
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AppendSalon はサロン予約を採番して先頭に追加し、保存したレコードを返す。
// ステータスは申請フローを含め常に confirmed とする。
func (r *Registry) AppendSalon(in SalonInput) (*model.SalonReservation, error) {
	if err := checkDeposit(in.Deposit); err != nil {
		return nil, err
	}

	rec := &model.SalonReservation{
		Header:         r.newHeader(model.KindSalon, in.Deposit),
		SalonID:        in.SalonID,
		SalonName:      in.SalonName,
		EventDate:      in.EventDate,
		EventStart:     in.EventStart,
		EventEnd:       in.EventEnd,
		PartySize:      in.PartySize,
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		Description:    in.Description,
	}
	r.prepend(rec)

	r.logger.Info("reservation appended",
		slog.String("reservation_id", rec.ID),
		slog.String("kind", string(model.KindSalon)),
	)
	return model.Clone(rec).(*model.SalonReservation), nil
}

// AppendRoom は客室予約を採番して先頭に追加し、保存したレコードを返す。
func (r *Registry) AppendRoom(in RoomInput) (*model.RoomReservation, error) {
	if err := checkDeposit(in.Deposit); err != nil {
		return nil, err
	}

	rec := &model.RoomReservation{
		Header:         r.newHeader(model.KindRoom, in.Deposit),
		RoomTypeID:     in.RoomTypeID,
		RoomTypeName:   in.RoomTypeName,
		CheckIn:        in.CheckIn,
		CheckOut:       in.CheckOut,
		CheckInTime:    in.CheckInTime,
		CheckOutTime:   in.CheckOutTime,
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		RequesterPhone: in.RequesterPhone,
		PetFriendly:    in.PetFriendly,
		PetName:        in.PetName,
	}
	r.prepend(rec)

	r.logger.Info("reservation appended",
		slog.String("reservation_id", rec.ID),
		slog.String("kind", string(model.KindRoom)),
	)
	return model.Clone(rec).(*model.RoomReservation), nil
}

// RecordDeposit は指定IDの予約に前金を記録し、ステータスを confirmed にする。
// 金額が負数・非数の場合はエラーを返し、台帳は変更しない。
// IDが見つからない場合はDepositIgnoredを返し、警告ログのみ出力する。
func (r *Registry) RecordDeposit(id string, amount float64) (DepositOutcome, error) {
	if err := checkDeposit(&amount); err != nil {
		return "", err
	}

	for _, rec := range r.reservations {
		h := rec.Head()
		if h.ID != id {
			continue
		}
		v := amount
		h.Deposit = &v
		h.Status = model.StatusConfirmed

		r.logger.Info("deposit recorded",
			slog.String("reservation_id", id),
			slog.Float64("amount", amount),
		)
		return DepositApplied, nil
	}

	r.logger.Warn("deposit ignored: reservation not found",
		slog.String("reservation_id", id),
	)
	return DepositIgnored, nil
}

// List は新しい順のスナップショットを返す。要素は台帳から独立したコピー。
func (r *Registry) List() []model.Reservation {
	out := make([]model.Reservation, len(r.reservations))
	for i, rec := range r.reservations {
		out[i] = model.Clone(rec)
	}
	return out
}

// Find は指定IDの予約のコピーを返す。見つからない場合はnilを返す。
func (r *Registry) Find(id string) model.Reservation {
	for _, rec := range r.reservations {
		if rec.Head().ID == id {
			return model.Clone(rec)
		}
	}
	return nil
}

// Len は台帳の件数を返す。
func (r *Registry) Len() int {
	return len(r.reservations)
}

func (r *Registry) newHeader(kind model.Kind, deposit *float64) model.Header {
	var d *float64
	if deposit != nil {
		v := *deposit
		d = &v
	}
	return model.Header{
		ID:        fmt.Sprintf("%s-%s", kind, r.newID()),
		Status:    model.StatusConfirmed,
		Deposit:   d,
		CreatedOn: r.clock.Now().Format(model.DateLayout),
	}
}

func (r *Registry) prepend(rec model.Reservation) {
	r.reservations = append([]model.Reservation{rec}, r.reservations...)
}

// checkDeposit は前金の不変条件（有限かつ0以上）を検証する。nilは「記録なし」で常に有効。
func checkDeposit(amount *float64) error {
	if amount == nil {
		return nil
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.NewInvalidDepositError(model.ReasonInvalidNumber)
	}
	if v < 0 {
		return model.NewInvalidDepositError(model.ReasonNegative)
	}
	return nil
}
