// errors стандартизирует ответы об ошибках HTTP-слоя forum-service.
// На вход он принимает ошибку сервисного слоя (сентинелы service.Err*),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по таксономии: internal/service/service.go.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/Vladiumnika/forumblackdynasty/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrRateLimited — превышен лимит запросов (пишется middleware.RateLimit).
var ErrRateLimited = stderrors.New("rate limited")

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - сентинел сервиса - маппинг через baseFromService();
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := baseFromService(err)

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromService — маппинг ошибка -> HTTP/FE-код/сообщение:
//   - ErrInvalidArgument (битые входные, id, токены подтверждения) -> 400
//   - ErrUnauthorized (нет/битый access, неверные учётные данные) -> 401
//   - ErrForbidden (не автор и не модератор, email не подтверждён) -> 403
//   - ErrNotFound -> 404
//   - ErrConflict (email/username заняты) -> 409
//   - ErrRateLimited -> 429
//   - ErrDependency (БД, кэш, S3, SMTP, reCAPTCHA) -> 502
//   - context.Canceled -> 499
//   - context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func baseFromService(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case stderrors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden", "forbidden"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "already exists"
	case stderrors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "too many requests"
	case stderrors.Is(err, service.ErrDependency):
		return http.StatusBadGateway, "dependency_failure", "dependency failure"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
