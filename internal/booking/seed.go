package booking

import "github.com/hitoshi/costaazul/internal/model"

// SeedReservations は画面確認用の初期予約を返す。先頭が最新。
// 呼び出しごとに新しい値を返すため、台帳間で共有されない。
func SeedReservations() []model.Reservation {
	return []model.Reservation{
		&model.SalonReservation{
			Header: model.Header{
				ID:        "ejemplo-1",
				Status:    model.StatusConfirmed,
				CreatedOn: "2026-01-10",
			},
			SalonID:        1,
			SalonName:      "Salón Coral",
			EventDate:      "2026-02-15",
			PartySize:      45,
			RequesterName:  "Juan Pérez",
			RequesterEmail: "juan@ejemplo.com",
			Description:    "Conferencia empresarial",
		},
		&model.RoomReservation{
			Header: model.Header{
				ID:        "ejemplo-2",
				Status:    model.StatusConfirmed,
				CreatedOn: "2026-01-12",
			},
			RoomTypeID:     "superior",
			RoomTypeName:   "Habitación Superior",
			CheckIn:        "2026-02-20",
			CheckOut:       "2026-02-25",
			RequesterName:  "María García",
			RequesterEmail: "maria@ejemplo.com",
			RequesterPhone: "+1234567890",
		},
	}
}
