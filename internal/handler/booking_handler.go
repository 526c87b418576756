package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/costaazul/internal/auth"
	"github.com/hitoshi/costaazul/internal/booking"
	"github.com/hitoshi/costaazul/internal/flow"
	"github.com/hitoshi/costaazul/internal/model"
	"github.com/hitoshi/costaazul/internal/workspace"
)

// BookingHandler は予約・申請の送信、予約一覧、前金記録のHTTPハンドラー。
type BookingHandler struct {
	workspaces Workspaces
	flow       *flow.Controller
	recorder   Recorder
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(workspaces Workspaces, controller *flow.Controller, recorder Recorder) *BookingHandler {
	if controller == nil {
		panic("handler: NewBookingHandler requires a non-nil flow.Controller")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &BookingHandler{
		workspaces: workspaces,
		flow:       controller,
		recorder:   recorder,
	}
}

type dashboardResponse struct {
	Identity model.Identity  `json:"identity"`
	Menu     []auth.MenuItem `json:"menu"`
}

type reservationListResponse struct {
	Reservations []model.Reservation `json:"reservations"`
}

// depositRequest は前金記録リクエスト。金額は入力どおりの文字列で受け取る。
type depositRequest struct {
	Amount string `json:"amount"`
}

type depositResponse struct {
	Outcome     booking.DepositOutcome `json:"outcome"`
	Reservation model.Reservation      `json:"reservation,omitempty"`
}

// Dashboard はログイン中の利用者と役割に応じたメニューを返す。
// GET /api/dashboard
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var resp dashboardResponse
	ok := withPermit(w, r, h.workspaces, auth.ActionDashboard, func(st *workspace.State, identity model.Identity) error {
		resp = dashboardResponse{Identity: identity, Menu: auth.Menu(identity.Role)}
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

// RequestSalon はセルフサービスのサロン申請を受け付ける。
// POST /api/request/salon
func (h *BookingHandler) RequestSalon(w http.ResponseWriter, r *http.Request) {
	h.submitSalon(w, r, flow.ModeRequest)
}

// ReserveSalon はスタッフによるサロンの直接予約を受け付ける。
// POST /api/reserve/salon
func (h *BookingHandler) ReserveSalon(w http.ResponseWriter, r *http.Request) {
	h.submitSalon(w, r, flow.ModeReserve)
}

// RequestRoom はセルフサービスの客室申請を受け付ける。
// POST /api/request/room
func (h *BookingHandler) RequestRoom(w http.ResponseWriter, r *http.Request) {
	h.submitRoom(w, r, flow.ModeRequest)
}

// ReserveRoom はスタッフによる客室の直接予約を受け付ける。
// POST /api/reserve/room
func (h *BookingHandler) ReserveRoom(w http.ResponseWriter, r *http.Request) {
	h.submitRoom(w, r, flow.ModeReserve)
}

func (h *BookingHandler) submitSalon(w http.ResponseWriter, r *http.Request, mode flow.Mode) {
	var conf *flow.Confirmation
	ok := withPermit(w, r, h.workspaces, modeAction(mode), func(st *workspace.State, _ model.Identity) error {
		var form flow.SalonForm
		if err := decodeJSON(r, &form); err != nil {
			return err
		}
		var err error
		conf, err = h.flow.SubmitSalon(st.Registry, mode, form)
		return err
	})
	if ok {
		writeJSON(w, http.StatusCreated, conf)
	}
}

func (h *BookingHandler) submitRoom(w http.ResponseWriter, r *http.Request, mode flow.Mode) {
	var conf *flow.Confirmation
	ok := withPermit(w, r, h.workspaces, modeAction(mode), func(st *workspace.State, _ model.Identity) error {
		var form flow.RoomForm
		if err := decodeJSON(r, &form); err != nil {
			return err
		}
		var err error
		conf, err = h.flow.SubmitRoom(st.Registry, mode, form)
		return err
	})
	if ok {
		writeJSON(w, http.StatusCreated, conf)
	}
}

// ListReservations は台帳の予約を新しい順に返す。
// GET /api/reservations
func (h *BookingHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	var list []model.Reservation
	ok := withPermit(w, r, h.workspaces, auth.ActionList, func(st *workspace.State, _ model.Identity) error {
		list = st.Registry.List()
		return nil
	})
	if !ok {
		return
	}
	if list == nil {
		list = []model.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservationListResponse{Reservations: list})
}

// RecordDeposit は予約に前金を記録し、ステータスを確定にする。
// 権限の確認を本文の解析より先に行う。存在しないIDの場合は何も変更せず outcome=ignored を返す。
// POST /api/reservations/{id}/deposit
func (h *BookingHandler) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var resp depositResponse
	ok := withPermit(w, r, h.workspaces, auth.ActionRecordDeposit, func(st *workspace.State, _ model.Identity) error {
		var req depositRequest
		if err := decodeJSON(r, &req); err != nil {
			return err
		}
		amount, err := parseDeposit(req.Amount)
		if err != nil {
			return err
		}
		outcome, err := st.Registry.RecordDeposit(id, amount)
		if err != nil {
			return err
		}
		resp.Outcome = outcome
		if outcome == booking.DepositApplied {
			resp.Reservation = st.Registry.Find(id)
		}
		return nil
	})
	if !ok {
		return
	}

	h.recorder.RecordDeposit(string(resp.Outcome))
	writeJSON(w, http.StatusOK, resp)
}

// parseDeposit は前金の入力文字列を数値に変換する。範囲の検証は台帳が行う。
func parseDeposit(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, model.NewInvalidDepositError(model.ReasonRequired)
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.NewInvalidDepositError(model.ReasonInvalidNumber)
	}
	return amount, nil
}

func modeAction(mode flow.Mode) auth.Action {
	if mode == flow.ModeReserve {
		return auth.ActionReserve
	}
	return auth.ActionRequest
}
