// Package model はドメインモデルを定義する。
package model

import "encoding/json"

// Kind は予約の種別（判別子）。
type Kind string

const (
	KindSalon Kind = "salon"
	KindRoom  Kind = "room"
)

// Status は予約のステータス。
// 現行のフローが生成するのは pending と confirmed のみで、
// closed と full はシードデータの表示用。
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusClosed    Status = "closed"
	StatusFull      Status = "full"
)

// DateLayout は日付（時刻なし）の文字列表現。
const DateLayout = "2006-01-02"

// Header は全種別に共通する予約フィールド。
type Header struct {
	ID        string   `json:"id"`
	Status    Status   `json:"status"`
	Deposit   *float64 `json:"deposit,omitempty"` // nil は「記録なし」でありゼロとは区別する
	CreatedOn string   `json:"created_on"`
}

// Reservation はサロン予約と客室予約の直和型。
// 実装は本パッケージ内の *SalonReservation と *RoomReservation に限られる。
// 種別ごとの処理は Visit を通して網羅的に書くこと。
type Reservation interface {
	Kind() Kind
	Head() *Header
	sealed()
}

// SalonReservation はイベントサロンの予約。
type SalonReservation struct {
	Header
	SalonID        int    `json:"salon_id"`
	SalonName      string `json:"salon_name"`
	EventDate      string `json:"event_date"`
	EventStart     string `json:"event_start,omitempty"`
	EventEnd       string `json:"event_end,omitempty"`
	PartySize      int    `json:"party_size"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	Description    string `json:"description,omitempty"`
}

// RoomReservation は客室の宿泊予約。
type RoomReservation struct {
	Header
	RoomTypeID     string `json:"room_type_id"`
	RoomTypeName   string `json:"room_type_name"`
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	CheckInTime    string `json:"check_in_time,omitempty"`
	CheckOutTime   string `json:"check_out_time,omitempty"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone"`
	PetFriendly    bool   `json:"pet_friendly"`
	PetName        string `json:"pet_name,omitempty"`
}

func (r *SalonReservation) Kind() Kind    { return KindSalon }
func (r *SalonReservation) Head() *Header { return &r.Header }
func (r *SalonReservation) sealed()       {}

func (r *RoomReservation) Kind() Kind    { return KindRoom }
func (r *RoomReservation) Head() *Header { return &r.Header }
func (r *RoomReservation) sealed()       {}

// MarshalJSON は判別子 kind を付与してエンコードする。
func (r *SalonReservation) MarshalJSON() ([]byte, error) {
	type plain SalonReservation
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindSalon, (*plain)(r)})
}

// MarshalJSON は判別子 kind を付与してエンコードする。
func (r *RoomReservation) MarshalJSON() ([]byte, error) {
	type plain RoomReservation
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindRoom, (*plain)(r)})
}

// Visitor は予約種別ごとの処理を束ねる。
// 種別を追加した場合はここにメソッドを足し、全実装をコンパイルエラーで洗い出す。
type Visitor interface {
	VisitSalon(r *SalonReservation)
	VisitRoom(r *RoomReservation)
}

// Visit は予約の種別に応じてVisitorのメソッドを呼び出す。
func Visit(r Reservation, v Visitor) {
	switch rr := r.(type) {
	case *SalonReservation:
		v.VisitSalon(rr)
	case *RoomReservation:
		v.VisitRoom(rr)
	default:
		panic("model: unknown reservation kind")
	}
}

// cloner はVisitを使って予約を複製する。
type cloner struct{ out Reservation }

func (c *cloner) VisitSalon(r *SalonReservation) {
	cp := *r
	cp.Deposit = cloneAmount(r.Deposit)
	c.out = &cp
}

func (c *cloner) VisitRoom(r *RoomReservation) {
	cp := *r
	cp.Deposit = cloneAmount(r.Deposit)
	c.out = &cp
}

// Clone は予約の独立したコピーを返す。
func Clone(r Reservation) Reservation {
	c := &cloner{}
	Visit(r, c)
	return c.out
}

func cloneAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}
