// Package storage описывает контракты хранилищ форума:
//   - ContentStorage — категории, темы, комментарии (MongoDB);
//   - IdentityStorage — пользователи, подписки, закладки, refresh-сессии (PostgreSQL);
//   - AvatarsStorage — presigned-загрузка аватаров (MinIO/S3).
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись отсутствует (в том числе при битом формате ID).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email, хэш refresh-токена).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidID — ссылочный ID в записываемых данных имеет неверный формат.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFoundAvatar — объект аватара отсутствует в бакете.
	ErrNotFoundAvatar = errors.New("avatar not found")
	// ErrInvalidArgument — загрузка аватара нарушает ограничения (тип/размер/ключ).
	ErrInvalidArgument = errors.New("invalid argument")
)

// CategoryUpdate — частичное обновление категории; nil означает «не трогать».
type CategoryUpdate struct {
	Name        *string
	Description *string
	Order       *int
}

// TopicUpdate — частичное обновление темы.
type TopicUpdate struct {
	Title    *string
	Content  *string
	IsLocked *bool
	IsPinned *bool
}

// CommentUpdate — изменение комментария; EditedAt выставляется всегда.
type CommentUpdate struct {
	Content  *string
	EditedAt time.Time
}

// ContentStorage — операции над контентом форума.
// Многошаговые операции (каскады, счётчики темы) транзакционны только
// при включённых транзакциях хранилища; иначе частичное применение возможно.
type ContentStorage interface {
	// ListCategories — все категории, order ASC, name ASC.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CategoryByID — ErrNotFound при отсутствии.
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	// CategoriesByIDs — категории по набору ID (отсутствующие пропускаются).
	CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (*models.Category, error)
	// UpdateCategory применяет только заданные поля. ErrNotFound при отсутствии.
	UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (*models.Category, error)
	// DeleteCategory удаляет комментарии тем категории, затем темы, затем категорию.
	DeleteCategory(ctx context.Context, id string) error

	// ListTopics — страница тем: pinned DESC, last_comment_at DESC, created_at DESC.
	ListTopics(ctx context.Context, filter models.TopicFilter, params models.ListParams) ([]models.Topic, error)
	// CountTopics — число тем по тому же фильтру.
	CountTopics(ctx context.Context, filter models.TopicFilter) (int64, error)
	// TopicByID — чтение без побочных эффектов.
	TopicByID(ctx context.Context, id string) (*models.Topic, error)
	// ViewTopic атомарно увеличивает views и возвращает обновлённую тему.
	ViewTopic(ctx context.Context, id string) (*models.Topic, error)
	// CreateTopic — ErrInvalidID при битом CategoryID.
	CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error)
	UpdateTopic(ctx context.Context, id string, update TopicUpdate) (*models.Topic, error)
	// DeleteTopic удаляет комментарии темы, затем саму тему.
	DeleteTopic(ctx context.Context, id string) error

	// ListComments — комментарии темы, created_at ASC.
	ListComments(ctx context.Context, topicID string, params models.ListParams) ([]models.Comment, error)
	CountComments(ctx context.Context, topicID string) (int64, error)
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	// CreateComment вставляет комментарий, затем увеличивает replies_count темы
	// и выставляет last_comment_at/last_comment_by.
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	UpdateComment(ctx context.Context, id string, update CommentUpdate) (*models.Comment, error)
	// DeleteComment удаляет комментарий и уменьшает replies_count темы topicID.
	DeleteComment(ctx context.Context, id, topicID string) error
	// LikeComment атомарно увеличивает likes.
	LikeComment(ctx context.Context, id string) (*models.Comment, error)

	Ping(ctx context.Context) error
}

// ProfileUpdate — частичное обновление профиля.
type ProfileUpdate struct {
	AvatarURL *string
	Bio       *string
}

// UserStorage — учётные записи.
type UserStorage interface {
	// SaveUser создаёт пользователя. ErrAlreadyExists при занятом email.
	SaveUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UserByEmail ищет без учёта регистра.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByVerificationToken — пользователь с данным хэшем и неистёкшим сроком на момент now.
	UserByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	// UserByResetToken — аналогично для токена сброса пароля.
	UserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	// MarkEmailVerified выставляет флаг и очищает токен верификации.
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	// UpdatePassword сохраняет новый хэш и очищает токен сброса.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*models.User, error)
	ConfirmAvatar(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.User, error)
	// ListUsers — подстрока в email или username без учёта регистра; пустой q — все.
	ListUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.UserSummary, error)
	// UsernamesByIDs — имена авторов для выдачи тем и комментариев.
	UsernamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// MembershipStorage — множества подписок и закладок. Добавление и удаление идемпотентны.
type MembershipStorage interface {
	AddSubscription(ctx context.Context, userID uuid.UUID, topicID string) error
	RemoveSubscription(ctx context.Context, userID uuid.UUID, topicID string) error
	AddBookmark(ctx context.Context, userID uuid.UUID, topicID string) error
	RemoveBookmark(ctx context.Context, userID uuid.UUID, topicID string) error
	// Memberships возвращает подписки и закладки пользователя.
	Memberships(ctx context.Context, userID uuid.UUID) (subscriptions, bookmarks []string, err error)
}

// RefreshSessionStorage — серверные записи refresh-токенов.
type RefreshSessionStorage interface {
	// SaveRefreshSession — ErrAlreadyExists при коллизии хэша.
	SaveRefreshSession(ctx context.Context, session *models.RefreshSession) error
	RefreshSessionByHash(ctx context.Context, hash string) (*models.RefreshSession, error)
	// RevokeRefreshSession возвращает false, если сессия уже была отозвана.
	RevokeRefreshSession(ctx context.Context, hash string) (bool, error)
	// RevokeUserSessions отзывает все сессии пользователя и возвращает их хэши.
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// IdentityStorage — всё, что хранится в PostgreSQL.
type IdentityStorage interface {
	UserStorage
	MembershipStorage
	RefreshSessionStorage
	Ping(ctx context.Context) error
}

// UploadInfo — данные для presigned PUT загрузки аватара.
type UploadInfo struct {
	UploadURL      string
	AvatarKey      string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// AvatarsStorage — presigned URL и подтверждение загрузки.
type AvatarsStorage interface {
	AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckAvatarUpload возвращает публичный URL объекта (пустой, если PublicBaseURL не задан).
	CheckAvatarUpload(ctx context.Context, userID uuid.UUID, key string) (string, error)
}
