// Package handlers содержит общие помощники HTTP-слоя: JSON-ответы
// с машиночитаемыми кодами ошибок и декодирование тел запросов.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Стабильные машиночитаемые коды ошибок API.
// Коды конфликтов доступности приходят из domain.ConflictReason.
const (
	CodeInvalidInput     = "InvalidInput"
	CodeNotFound         = "NotFound"
	CodeAccessDenied     = "AccessDenied"
	CodeUnauthorized     = "Unauthorized"
	CodeAlreadyCancelled = "AlreadyCancelled"
	CodePaymentDeclined  = "PaymentDeclined"
	CodeInternal         = "Internal"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON пишет JSON-ответ с указанным статусом.
// payload == nil дает пустое тело.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	// Ошибку кодирования уже не доставить клиенту - статус отправлен
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ответ с машиночитаемым кодом ошибки
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// RespondBadRequest 400 с кодом InvalidInput
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, CodeInvalidInput, message)
}

// RespondNotFound 404 с кодом NotFound
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, CodeNotFound, message)
}

// RespondForbidden 403 с кодом AccessDenied
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, CodeAccessDenied, message)
}

// RespondUnauthorized 401 с кодом Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// RespondConflict 409 с переданным кодом причины конфликта
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondInternalError 500 с кодом Internal
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, CodeInternal, "внутренняя ошибка сервера")
}

// DecodeJSON декодирует тело запроса в dst, отклоняя неизвестные поля
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	return nil
}
