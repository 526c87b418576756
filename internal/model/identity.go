// Package model はドメインモデルを定義する。
package model

// Role はログイン中の利用者の役割を表す。
type Role string

const (
	// RoleClient は宿泊客・イベント主催者。申請フローのみ利用できる。
	RoleClient Role = "client"
	// RoleOperator はホテルスタッフ。直接予約と予約一覧を利用できる。
	RoleOperator Role = "operator"
)

// Valid はRoleが既知の値かどうかを返す。
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleOperator
}

// Identity はログイン中の利用者を表す。
// 認証は行わず、入力されたメールアドレスから機械的に導出する。
type Identity struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// IsOperator はスタッフ権限を持つかどうかを返す。
func (i Identity) IsOperator() bool {
	return i.Role == RoleOperator
}
