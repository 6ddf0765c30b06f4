// Package handlers — REST-хендлеры forum-service поверх сервисного слоя.
package handlers

//go:generate mockgen -source=handlers.go -destination=mock_forum_test.go -package=handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Forum — операции сервисного слоя, которые вызывает REST (реализует *service.Service).
type Forum interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, actor access.Actor, in service.CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, actor access.Actor, id string, in service.UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor access.Actor, id string) error

	ListTopics(ctx context.Context, in service.ListTopicsInput) (*models.Page[models.Topic], error)
	GlobalSearch(ctx context.Context, in service.SearchInput) (*models.Page[models.Topic], error)
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	CreateTopic(ctx context.Context, actor access.Actor, in service.CreateTopicInput) (*models.Topic, error)
	UpdateTopic(ctx context.Context, actor access.Actor, id string, in service.UpdateTopicInput) (*models.Topic, error)
	DeleteTopic(ctx context.Context, actor access.Actor, id string) error

	ListComments(ctx context.Context, in service.ListCommentsInput) (*models.Page[models.Comment], error)
	CreateComment(ctx context.Context, actor access.Actor, in service.CreateCommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor access.Actor, id string, content *string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor access.Actor, id string) error
	LikeComment(ctx context.Context, id string) (*models.Comment, error)

	Subscribe(ctx context.Context, actor access.Actor, topicID string) error
	Unsubscribe(ctx context.Context, actor access.Actor, topicID string) error
	Bookmark(ctx context.Context, actor access.Actor, topicID string) error
	Unbookmark(ctx context.Context, actor access.Actor, topicID string) error

	Me(ctx context.Context, actor access.Actor) (*models.User, error)
	UpdateMe(ctx context.Context, actor access.Actor, in service.UpdateProfileInput) (*models.User, error)
	AvatarUploadURL(ctx context.Context, actor access.Actor, contentType string, contentLength int64) (*storage.UploadInfo, error)
	ConfirmAvatar(ctx context.Context, actor access.Actor, key string) (*models.User, error)
	ListUsers(ctx context.Context, actor access.Actor, query string, limit int) ([]models.UserSummary, error)
	SetUserRole(ctx context.Context, actor access.Actor, userID uuid.UUID, role models.Role) (*models.UserSummary, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc      Forum
	validate *validator.Validate
}

func New(svc Forum) *Handlers {
	return &Handlers{
		svc:      svc,
		validate: validator.New(),
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodeValid — decodeStrict плюс проверка validate-тегов DTO.
// Любая ошибка отдаётся как service.ErrInvalidArgument.
func (h *Handlers) decodeValid(r *http.Request, value any) error {
	if err := decodeStrict(r, value); err != nil {
		return fmt.Errorf("handlers: decode body: %w", service.ErrInvalidArgument)
	}

	if err := h.validate.Struct(value); err != nil {
		return fmt.Errorf("handlers: %v: %w", err, service.ErrInvalidArgument)
	}

	return nil
}

// errInvalidArgument — локальная ошибка разбора запроса -> 400.
func errInvalidArgument(what string) error {
	return fmt.Errorf("handlers: %s: %w", what, service.ErrInvalidArgument)
}

// actor — аутентифицированный актор; на защищённых маршрутах его гарантирует RequireAuth.
func actor(r *http.Request) access.Actor {
	a, _ := access.From(r.Context())
	return a
}

// pageQuery читает page и размер страницы (pageSize или limit, как в старом API).
// Пустые значения -> 0, дефолты подставляет сервис.
func pageQuery(r *http.Request) (page, pageSize int, err error) {
	q := r.URL.Query()

	if page, err = intQuery(q.Get("page")); err != nil {
		return 0, 0, errInvalidArgument("page")
	}

	size := q.Get("pageSize")
	if size == "" {
		size = q.Get("limit")
	}

	if pageSize, err = intQuery(size); err != nil {
		return 0, 0, errInvalidArgument("pageSize")
	}

	return page, pageSize, nil
}

func intQuery(v string) (int, error) {
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad integer %q", v)
	}

	return n, nil
}

// remoteIP — IP клиента для reCAPTCHA (RemoteAddr уже нормализован chi RealIP).
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
