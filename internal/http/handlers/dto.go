package handlers

import (
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
)

// Запросы auth. Поля и имена совпадают с клиентом форума (camelCase).
type registerRequest struct {
	Username  string `json:"username" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,max=254"`
	Password  string `json:"password" validate:"required,max=72"`
	Recaptcha string `json:"recaptchaToken"`
}

type loginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Recaptcha string `json:"recaptchaToken"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Запросы forum.
type categoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=128"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       *int    `json:"order"`
}

type createTopicRequest struct {
	Title      string `json:"title" validate:"required,max=300"`
	Content    string `json:"content" validate:"required,max=50000"`
	CategoryID string `json:"categoryId" validate:"required"`
}

type updateTopicRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=300"`
	Content  *string `json:"content" validate:"omitempty,max=50000"`
	IsLocked *bool   `json:"isLocked"`
	IsPinned *bool   `json:"isPinned"`
}

type createCommentRequest struct {
	Content  string `json:"content" validate:"required,max=20000"`
	TopicID  string `json:"topicId" validate:"required"`
	ParentID string `json:"parentId"`
}

type updateCommentRequest struct {
	Content *string `json:"content" validate:"omitempty,max=20000"`
}

// Запросы users/admin.
type updateMeRequest struct {
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,max=2048"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}

type avatarUploadRequest struct {
	ContentType   string `json:"contentType" validate:"required"`
	ContentLength int64  `json:"contentLength" validate:"gt=0"`
}

type avatarConfirmRequest struct {
	AvatarKey string `json:"avatarKey" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Ответы.
type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	EmailVerified      bool       `json:"emailVerified"`
	AvatarURL          string     `json:"avatarUrl"`
	Bio                string     `json:"bio"`
	LastSeenAt         *time.Time `json:"lastSeenAt,omitempty"`
	SubscribedTopicIDs []string   `json:"subscribedTopics,omitempty"`
	BookmarkedTopicIDs []string   `json:"bookmarkedTopics,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type registerResponse struct {
	Message   string       `json:"message"`
	EmailSent bool         `json:"emailSent"`
	User      userResponse `json:"user"`
}

type tokensResponse struct {
	AccessToken      string        `json:"accessToken"`
	RefreshToken     string        `json:"refreshToken"`
	AccessExpiresAt  time.Time     `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time     `json:"refreshExpiresAt"`
	User             *userResponse `json:"user,omitempty"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type topicResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CategoryID    string     `json:"categoryId"`
	CategoryName  string     `json:"categoryName,omitempty"`
	AuthorID      string     `json:"authorId"`
	AuthorName    string     `json:"authorName,omitempty"`
	Views         int64      `json:"views"`
	RepliesCount  int64      `json:"repliesCount"`
	LastCommentAt *time.Time `json:"lastCommentAt,omitempty"`
	LastCommentBy string     `json:"lastCommentBy,omitempty"`
	IsLocked      bool       `json:"isLocked"`
	IsPinned      bool       `json:"isPinned"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type commentResponse struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	TopicID    string     `json:"topicId"`
	ParentID   string     `json:"parentId,omitempty"`
	AuthorID   string     `json:"authorId"`
	AuthorName string     `json:"authorName,omitempty"`
	Likes      int64      `json:"likes"`
	EditedAt   *time.Time `json:"editedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type pageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type userSummaryResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type avatarUploadResponse struct {
	UploadURL      string            `json:"uploadUrl"`
	AvatarKey      string            `json:"avatarKey"`
	ExpiresSeconds int64             `json:"expiresSeconds"`
	RequiredHeader map[string]string `json:"requiredHeaders"`
}

func userFrom(u *models.User) userResponse {
	if u == nil {
		return userResponse{}
	}

	return userResponse{
		ID:                 u.ID.String(),
		Username:           u.Username,
		Email:              u.Email,
		Role:               string(u.Role),
		EmailVerified:      u.EmailVerified,
		AvatarURL:          u.AvatarURL,
		Bio:                u.Bio,
		LastSeenAt:         u.LastSeenAt,
		SubscribedTopicIDs: u.SubscribedTopicIDs,
		BookmarkedTopicIDs: u.BookmarkedTopicIDs,
		CreatedAt:          u.CreatedAt,
	}
}

func tokensFrom(p *models.TokenPair, u *models.User) tokensResponse {
	out := tokensResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}

	if u != nil {
		ur := userFrom(u)
		out.User = &ur
	}

	return out
}

func categoryFrom(c models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Order:       c.Order,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func categoriesFrom(cs []models.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, categoryFrom(c))
	}

	return out
}

func topicFrom(t models.Topic) topicResponse {
	out := topicResponse{
		ID:            t.ID,
		Title:         t.Title,
		Content:       t.Content,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		AuthorID:      idString(t.AuthorID),
		AuthorName:    t.AuthorName,
		Views:         t.Views,
		RepliesCount:  t.RepliesCount,
		LastCommentAt: t.LastCommentAt,
		IsLocked:      t.IsLocked,
		IsPinned:      t.IsPinned,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}

	if t.LastCommentBy != nil {
		out.LastCommentBy = t.LastCommentBy.String()
	}

	return out
}

func commentFrom(c models.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		Content:    c.Content,
		TopicID:    c.TopicID,
		ParentID:   c.ParentID,
		AuthorID:   idString(c.AuthorID),
		AuthorName: c.AuthorName,
		Likes:      c.Likes,
		EditedAt:   c.EditedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func pageFrom[T, R any](p *models.Page[T], conv func(T) R) pageResponse[R] {
	out := pageResponse[R]{Items: make([]R, 0)}
	if p == nil {
		return out
	}

	for _, it := range p.Items {
		out.Items = append(out.Items, conv(it))
	}

	out.Total = p.Total
	out.Page = p.Page
	out.PageSize = p.PageSize

	return out
}

func userSummaryFrom(u models.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func avatarUploadFrom(u *storage.UploadInfo) avatarUploadResponse {
	return avatarUploadResponse{
		UploadURL:      u.UploadURL,
		AvatarKey:      u.AvatarKey,
		ExpiresSeconds: int64(u.Expires.Seconds()),
		RequiredHeader: u.RequiredHeader,
	}
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}

	return id.String()
}
