// Package middleware содержит HTTP middleware: идентификация
// пользователя из заголовков шлюза и метрики запросов.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/Arena-BookingService/internal/api/handlers"
)

// Заголовки, проставляемые внешним identity-шлюзом
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	isAdminKey contextKey = "isAdmin"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает идентификацию пользователя из заголовков шлюза.
// Запросы без валидного X-User-ID отклоняются с 401: сервис доверяет
// шлюзу и сам токены не проверяет.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderUserID)
			userID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("%s %s - missing or invalid %s header", r.Method, r.URL.Path, HeaderUserID)
				handlers.RespondUnauthorized(w, "не указан идентификатор пользователя")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, isAdminKey, r.Header.Get(HeaderUserRole) == RoleAdmin)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только администраторов; вешается после Auth
func RequireAdmin(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				logger.Warn("%s %s - admin role required, user=%d", r.Method, r.URL.Path, UserID(r.Context()))
				handlers.RespondForbidden(w, "требуются права администратора")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID возвращает ID пользователя из контекста запроса (0, если нет)
func UserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// IsAdmin возвращает true, если запрос выполняет администратор
func IsAdmin(ctx context.Context) bool {
	if admin, ok := ctx.Value(isAdminKey).(bool); ok {
		return admin
	}
	return false
}
