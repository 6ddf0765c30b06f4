package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/redact"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
)

// UpdateProfileInput — частичное обновление профиля; nil-поля не меняются.
type UpdateProfileInput struct {
	AvatarURL *string
	Bio       *string
}

// defaultUsersLimit — размер выдачи ListUsers без явного limit.
const defaultUsersLimit = 20

// Me — профиль актора вместе с подписками и закладками.
func (s *Service) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	const op = "service/users/Me"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	user, err := s.identity.UserByID(ctx, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	subs, bookmarks, err := s.identity.Memberships(ctx, actor.ID)
	if err != nil {
		lg.Error("storage error on Memberships", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	user.SubscribedTopicIDs = subs
	user.BookmarkedTopicIDs = bookmarks

	return user, nil
}

// UpdateMe обновляет avatar_url и/или bio актора.
func (s *Service) UpdateMe(ctx context.Context, actor access.Actor, in UpdateProfileInput) (*models.User, error) {
	const op = "service/users/UpdateMe"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	user, err := s.identity.UpdateProfile(ctx, actor.ID, storage.ProfileUpdate{
		AvatarURL: in.AvatarURL,
		Bio:       in.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateProfile", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return user, nil
}

// AvatarUploadURL — presigned PUT для загрузки аватара.
// Недопустимый тип или размер -> ErrInvalidArgument.
func (s *Service) AvatarUploadURL(ctx context.Context, actor access.Actor, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/users/AvatarUploadURL"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String(), "content_type", contentType)

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	info, err := s.avatars.AvatarUploadURL(ctx, actor.ID, contentType, contentLength)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("invalid argument: avatar constraints", "err", err)
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
		default:
			lg.Error("storage error on AvatarUploadURL", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return info, nil
}

// ConfirmAvatar проверяет загруженный объект и сохраняет ключ и публичный URL.
func (s *Service) ConfirmAvatar(ctx context.Context, actor access.Actor, key string) (*models.User, error) {
	const op = "service/users/ConfirmAvatar"

	key = strings.TrimSpace(key)
	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String(), "avatar_key", key)

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	if key == "" {
		lg.Warn("invalid argument: empty avatar_key")
		return nil, fmt.Errorf("%s: avatar key required: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.avatars.CheckAvatarUpload(ctx, actor.ID, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidArgument):
			lg.Warn("invalid argument: foreign avatar key")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		case errors.Is(err, storage.ErrNotFoundAvatar):
			lg.Warn("avatar object not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CheckAvatarUpload", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	user, err := s.identity.ConfirmAvatar(ctx, actor.ID, key, publicURL)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ConfirmAvatar", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return user, nil
}

// ListUsers — админский поиск по подстроке email/username.
// limit<=0 -> 20, верхняя граница — limits.max.
func (s *Service) ListUsers(ctx context.Context, actor access.Actor, query string, limit int) ([]models.UserSummary, error) {
	const op = "service/users/ListUsers"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String())

	if err := authorizeAdmin(op, actor); err != nil {
		lg.Warn("forbidden")
		return nil, err
	}

	if limit <= 0 {
		limit = defaultUsersLimit
	}

	if s.limits.Max > 0 && limit > s.limits.Max {
		limit = s.limits.Max
	}

	users, err := s.identity.ListUsers(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		lg.Error("storage error on ListUsers", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if users == nil {
		users = []models.UserSummary{}
	}

	return users, nil
}

// SetUserRole назначает роль пользователю. Неизвестная роль -> ErrInvalidArgument.
func (s *Service) SetUserRole(ctx context.Context, actor access.Actor, userID uuid.UUID, role models.Role) (*models.UserSummary, error) {
	const op = "service/users/SetUserRole"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String(), "user_id", userID.String(), "role", string(role))

	if err := authorizeAdmin(op, actor); err != nil {
		lg.Warn("forbidden")
		return nil, err
	}

	return s.setRole(ctx, op, userID, role)
}

// AssignRole — назначение роли без актора, для CLI-команды set-role.
func (s *Service) AssignRole(ctx context.Context, email string, role models.Role) (*models.UserSummary, error) {
	const op = "service/users/AssignRole"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email), "role", string(role))

	norm, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByEmail(ctx, norm)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByEmail", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return s.setRole(ctx, op, user.ID, role)
}

func (s *Service) setRole(ctx context.Context, op string, userID uuid.UUID, role models.Role) (*models.UserSummary, error) {
	lg := log.From(ctx).With("op", op, "user_id", userID.String(), "role", string(role))

	if !role.Valid() {
		lg.Warn("invalid argument: unknown role")
		return nil, fmt.Errorf("%s: unknown role: %w", op, ErrInvalidArgument)
	}

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: user id required: %w", op, ErrInvalidArgument)
	}

	summary, err := s.identity.SetRole(ctx, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on SetRole", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	lg.Info("role assigned")

	return summary, nil
}

func authorizeAdmin(op string, actor access.Actor) error {
	if err := requireActor(op, actor); err != nil {
		return err
	}

	if !access.HasRole(actor, models.RoleAdmin) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return nil
}
