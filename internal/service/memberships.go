package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
)

// Subscribe добавляет тему в подписки актора. Повторный вызов не ошибка,
// существование темы не проверяется.
func (s *Service) Subscribe(ctx context.Context, actor access.Actor, topicID string) error {
	return s.membership(ctx, "service/memberships/Subscribe", actor, topicID, s.identity.AddSubscription)
}

// Unsubscribe убирает тему из подписок.
func (s *Service) Unsubscribe(ctx context.Context, actor access.Actor, topicID string) error {
	return s.membership(ctx, "service/memberships/Unsubscribe", actor, topicID, s.identity.RemoveSubscription)
}

// Bookmark добавляет тему в закладки.
func (s *Service) Bookmark(ctx context.Context, actor access.Actor, topicID string) error {
	return s.membership(ctx, "service/memberships/Bookmark", actor, topicID, s.identity.AddBookmark)
}

// Unbookmark убирает тему из закладок.
func (s *Service) Unbookmark(ctx context.Context, actor access.Actor, topicID string) error {
	return s.membership(ctx, "service/memberships/Unbookmark", actor, topicID, s.identity.RemoveBookmark)
}

func (s *Service) membership(
	ctx context.Context,
	op string,
	actor access.Actor,
	topicID string,
	apply func(ctx context.Context, userID uuid.UUID, topicID string) error,
) error {
	topicID = strings.TrimSpace(topicID)
	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String(), "topic_id", topicID)

	if err := requireActor(op, actor); err != nil {
		return err
	}

	if !models.IsValidID(topicID) {
		lg.Warn("invalid argument: bad topic_id")
		return fmt.Errorf("%s: invalid topic id: %w", op, ErrInvalidArgument)
	}

	if err := apply(ctx, actor.ID, topicID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on membership", "err", err)
			return fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return nil
}
