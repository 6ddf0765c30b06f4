package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Vladiumnika/forumblackdynasty/internal/http/handlers"
	"github.com/Vladiumnika/forumblackdynasty/internal/http/middleware"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// Auth проверяет Bearer-токены (обычно *service.Service).
	Auth middleware.Authenticator
	// RateLimit ограничивает чувствительные /auth маршруты; nil — без лимита.
	RateLimit *middleware.IPRateLimiter
	// Metrics — HTTP-метрики Prometheus; nil — не собираются.
	Metrics     *middleware.Metrics
	CORSOrigins []string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Forum, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		chimw.RealIP,                    // RemoteAddr из X-Forwarded-For/X-Real-IP для лимитов и reCAPTCHA
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)

	if opts.Metrics != nil {
		root.Use(opts.Metrics.Middleware())
	}

	root.Use(
		middleware.CORS(opts.CORSOrigins),
		middleware.Deadline(opts.Timeout), // общий дедлайн запроса, включая проверку токена
		middleware.AuthBearer(opts.Auth),  // актор в контекст, если токен валиден
	)

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, opts Options) {
	limited := middleware.RateLimit(opts.RateLimit)
	authed := middleware.RequireAuth()
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleModerator)
	admin := middleware.RequireRole(models.RoleAdmin)

	// auth
	r.Route("/auth", func(r chi.Router) {
		r.With(limited).Post("/register", h.Register)
		r.With(limited).Post("/login", h.Login)
		r.Get("/verify/{token}", h.VerifyEmail)
		r.With(limited).Post("/resend-verification", h.ResendVerification)
		r.With(limited).Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})

	// forum
	r.Route("/forum", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.With(staff).Post("/categories", h.CreateCategory)
		r.With(staff).Put("/categories/{categoryId}", h.UpdateCategory)
		r.With(staff).Delete("/categories/{categoryId}", h.DeleteCategory)
		r.Get("/categories/{categoryId}/topics", h.ListTopics)

		r.Get("/topics/{topicId}", h.GetTopic)
		r.Get("/topics/{topicId}/comments", h.ListComments)
		r.Get("/search", h.Search)

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Post("/topics", h.CreateTopic)
			r.Put("/topics/{topicId}", h.UpdateTopic)
			r.Delete("/topics/{topicId}", h.DeleteTopic)

			r.Post("/comments", h.CreateComment)
			r.Put("/comments/{commentId}", h.UpdateComment)
			r.Delete("/comments/{commentId}", h.DeleteComment)
			r.Post("/comments/{commentId}/like", h.LikeComment)

			r.Post("/topics/{topicId}/subscribe", h.Subscribe)
			r.Post("/topics/{topicId}/unsubscribe", h.Unsubscribe)
			r.Post("/topics/{topicId}/bookmark", h.Bookmark)
			r.Post("/topics/{topicId}/unbookmark", h.Unbookmark)
		})
	})

	// users
	r.Route("/users", func(r chi.Router) {
		r.Use(authed)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Post("/me/avatar/upload-url", h.AvatarUploadURL)
		r.Post("/me/avatar/confirm", h.ConfirmAvatar)
	})

	// admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(admin)

		r.Get("/users", h.ListUsers)
		r.Put("/users/{userId}/role", h.SetUserRole)
	})
}
