package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline ограничивает запрос сроком d от момента входа в цепочку.
// Если у контекста уже есть более ранний дедлайн (например, от клиента
// gateway), действует он: context.WithTimeout берёт минимальный из двух.
// d<=0 - мидлвар no-op.
func Deadline(d time.Duration) Middleware {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
