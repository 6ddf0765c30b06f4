package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	apierrors "github.com/Vladiumnika/forumblackdynasty/internal/errors"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
)

// Authenticator проверяет access-токен и возвращает актора (реализует service.Service).
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (access.Actor, error)
}

const ctxAuthErr ctxKey = "auth_err"

// AuthBearer извлекает Bearer-токен из Authorization и, если он есть,
// аутентифицирует его. Успех кладёт access.Actor в контекст.
// Неудача не прерывает запрос: публичные маршруты работают анонимно,
// а RequireAuth отдаст сохранённую ошибку (401 или 502).
func AuthBearer(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		if auth == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r.Header.Get("Authorization"))
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			actor, err := auth.Authenticate(ctx, token)
			if err != nil {
				ctx = context.WithValue(ctx, ctxAuthErr, err)
			} else {
				ctx = access.Into(ctx, actor)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает только запросы с аутентифицированным актором.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := access.From(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			err, _ := r.Context().Value(ctxAuthErr).(error)
			if err == nil {
				err = fmt.Errorf("middleware/RequireAuth: missing bearer token: %w", service.ErrUnauthorized)
			}

			apierrors.WriteError(w, r, err)
		})
	}
}

// RequireRole — RequireAuth плюс членство роли актора в списке (иначе 403).
func RequireRole(roles ...models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		allowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := access.From(r.Context())
			if !access.HasRole(actor, roles...) {
				apierrors.WriteError(w, r, fmt.Errorf("middleware/RequireRole: %w", service.ErrForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})

		return RequireAuth()(allowed)
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) || len(header) <= len(prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
