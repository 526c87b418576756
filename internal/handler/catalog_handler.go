package handler

import (
	"net/http"

	"github.com/hitoshi/costaazul/internal/catalog"
	"github.com/hitoshi/costaazul/internal/flow"
	"github.com/hitoshi/costaazul/internal/model"
)

// CatalogHandler は表示用の一覧と、入力途中のフォームのインライン検証を扱うHTTPハンドラー。
// いずれもワークスペースの状態を参照しない。
type CatalogHandler struct {
	catalog *catalog.Catalog
	flow    *flow.Controller
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(cat *catalog.Catalog, controller *flow.Controller) *CatalogHandler {
	if cat == nil || controller == nil {
		panic("handler: NewCatalogHandler requires a catalog and a flow.Controller")
	}
	return &CatalogHandler{catalog: cat, flow: controller}
}

type hoursRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type stayHoursRequest struct {
	CheckInTime  string    `json:"check_in_time"`
	CheckOutTime string    `json:"check_out_time"`
	Mode         flow.Mode `json:"mode"`
}

// checkResponse はインライン検証の結果。エラーがなくても200で返す。
type checkResponse struct {
	Valid  bool               `json:"valid"`
	Fields []model.FieldError `json:"fields"`
}

func newCheckResponse(fields []model.FieldError) checkResponse {
	if fields == nil {
		fields = []model.FieldError{}
	}
	return checkResponse{Valid: len(fields) == 0, Fields: fields}
}

// Salons はサロン一覧を返す。
// GET /api/catalog/salons
func (h *CatalogHandler) Salons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"salons": h.catalog.Salons})
}

// Rooms は客室タイプ一覧を返す。
// GET /api/catalog/rooms
func (h *CatalogHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"room_types": h.catalog.RoomTypes})
}

// ValidateEventHours はイベント開始/終了時刻をインライン検証する。
// POST /api/validate/event-hours
func (h *CatalogHandler) ValidateEventHours(w http.ResponseWriter, r *http.Request) {
	var req hoursRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(flow.CheckEventHours(req.Start, req.End)))
}

// ValidateStayHours はチェックイン/アウト時刻をモードに応じてインライン検証する。
// POST /api/validate/stay-hours
func (h *CatalogHandler) ValidateStayHours(w http.ResponseWriter, r *http.Request) {
	var req stayHoursRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	if !req.Mode.Valid() {
		handleServiceError(w, model.NewInvalidRequestError())
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(flow.CheckStayHours(req.Mode, req.CheckInTime, req.CheckOutTime)))
}

// ValidateSalon は入力途中のサロンフォームを検証する。モードはクエリパラメータmodeで指定する。
// POST /api/validate/salon?mode=request|reserve
func (h *CatalogHandler) ValidateSalon(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeFromQuery(w, r)
	if !ok {
		return
	}
	var form flow.SalonForm
	if err := decodeJSON(r, &form); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(h.flow.CheckSalon(mode, form)))
}

// ValidateRoom は入力途中の客室フォームを検証する。
// POST /api/validate/room?mode=request|reserve
func (h *CatalogHandler) ValidateRoom(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeFromQuery(w, r)
	if !ok {
		return
	}
	var form flow.RoomForm
	if err := decodeJSON(r, &form); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckResponse(h.flow.CheckRoom(mode, form)))
}

func modeFromQuery(w http.ResponseWriter, r *http.Request) (flow.Mode, bool) {
	mode := flow.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = flow.ModeRequest
	}
	if !mode.Valid() {
		handleServiceError(w, model.NewInvalidRequestError())
		return "", false
	}
	return mode, true
}
