// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法、フィールド単位のエラーを含む。
type APIError struct {
	Code     string       // エラーコード
	Message  string       // エラーメッセージ
	Category string       // カテゴリ: auth, validation, booking, system
	Action   string       // ユーザー向け対処方法
	Fields   []FieldError // 入力欄ごとのエラー（インライン表示用）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// FieldError は入力欄に紐づくバリデーションエラー。
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// 定義済みエラーコード
const (
	ErrCodeValidation     = "VALIDATION_FAILED"
	ErrCodeLoginRequired  = "LOGIN_REQUIRED"
	ErrCodeInvalidDeposit = "INVALID_DEPOSIT"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeGateLoading    = "GATE_LOADING"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeCSRF           = "CSRF_INVALID"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// 入力欄エラーの理由
const (
	ReasonRequired         = "required"
	ReasonMalformed        = "malformed"
	ReasonOutOfWindow      = "out_of_window"
	ReasonEndNotAfterStart = "end_not_after_start"
	ReasonOutOfRange       = "out_of_range"
	ReasonInvalidNumber    = "invalid_number"
	ReasonNegative         = "negative"
	ReasonUnavailable      = "unavailable"
	ReasonUnknown          = "unknown"
)

// NewValidationError は入力欄エラーをまとめたバリデーションエラーを生成する。
func NewValidationError(fields []FieldError) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  "Hay campos con errores en el formulario.",
		Category: "validation",
		Action:   "Corrija los campos marcados y vuelva a enviar.",
		Fields:   fields,
	}
}

// NewLoginRequiredError は空のメールアドレスでログインしようとした場合のエラーを生成する。
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginRequired,
		Message:  "Ingrese su correo electrónico.",
		Category: "validation",
		Action:   "Escriba un correo electrónico para continuar.",
	}
}

// NewInvalidDepositError は不正な前金額のエラーを生成する。
func NewInvalidDepositError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDeposit,
		Message:  fmt.Sprintf("Monto de abono inválido: %s", reason),
		Category: "validation",
		Action:   "Ingrese un monto numérico mayor o igual a cero.",
		Fields: []FieldError{{
			Field:   "deposit_amount",
			Reason:  reason,
			Message: "El abono debe ser un número mayor o igual a cero.",
		}},
	}
}

// NewUnauthorizedError は未ログイン時のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Debe iniciar sesión.",
		Category: "auth",
		Action:   "Inicie sesión con su correo electrónico.",
	}
}

// NewForbiddenError は役割が不足している場合のエラーを生成する。
func NewForbiddenError(role Role) *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  fmt.Sprintf("El rol %q no tiene acceso a esta sección.", role),
		Category: "auth",
		Action:   "Ingrese con una cuenta de operario.",
	}
}

// NewGateLoadingError はログイン状態の復元が完了していない場合のエラーを生成する。
func NewGateLoadingError() *APIError {
	return &APIError{
		Code:     ErrCodeGateLoading,
		Message:  "Cargando la sesión.",
		Category: "system",
		Action:   "Espere un momento y vuelva a intentarlo.",
	}
}

// NewInvalidRequestError はリクエストボディの解析に失敗した場合のエラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "No se pudo leer la solicitud.",
		Category: "validation",
		Action:   "Envíe un cuerpo JSON válido.",
	}
}

// NewCSRFError はCSRFトークンの検証に失敗した場合のエラーを生成する。
func NewCSRFError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRF,
		Message:  "La verificación de seguridad del formulario falló.",
		Category: "auth",
		Action:   "Recargue la página y vuelva a enviar el formulario.",
	}
}

// NewRateLimitedError はリクエスト数が上限を超えた場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Demasiadas solicitudes.",
		Category: "system",
		Action:   "Espere unos segundos y vuelva a intentarlo.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Ocurrió un error interno.",
		Category: "system",
		Action:   "Espere un momento y vuelva a intentarlo.",
	}
}
