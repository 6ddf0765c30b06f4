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
	"golang.org/x/sync/errgroup"
)

// ListCommentsInput — страница комментариев темы.
type ListCommentsInput struct {
	TopicID  string
	Page     int
	PageSize int
}

// CreateCommentInput — комментарий или ответ на комментарий.
// ParentID не проверяется на существование.
type CreateCommentInput struct {
	TopicID  string
	Content  string
	ParentID string
}

// ListComments — комментарии темы по возрастанию created_at с именами авторов.
func (s *Service) ListComments(ctx context.Context, in ListCommentsInput) (*models.Page[models.Comment], error) {
	const op = "service/comments/ListComments"

	topicID := strings.TrimSpace(in.TopicID)
	lg := log.From(ctx).With("op", op, "topic_id", topicID)

	if topicID == "" {
		lg.Warn("invalid argument: empty topic_id")
		return nil, fmt.Errorf("%s: topic id required: %w", op, ErrInvalidArgument)
	}

	params := s.listParams(in.Page, in.PageSize)

	var (
		items []models.Comment
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		items, err = s.content.ListComments(gctx, topicID, params)
		return err
	})

	g.Go(func() error {
		var err error
		total, err = s.content.CountComments(gctx, topicID)
		return err
	})

	if err := g.Wait(); err != nil {
		lg.Error("storage error on ListComments", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if items == nil {
		items = []models.Comment{}
	}

	authors := make([]uuid.UUID, 0, len(items))
	for _, c := range items {
		authors = append(authors, c.AuthorID)
	}

	names := s.authorNames(ctx, authors)
	for i := range items {
		items[i].AuthorName = names[items[i].AuthorID]
	}

	return &models.Page[models.Comment]{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// CreateComment — бизнес-операция создания комментария.
//
// Валидация:
//   - Content (после TrimSpace) и TopicID обязательны.
//
// Поведение/ошибки:
//   - ErrNotFound — темы нет;
//   - ErrForbidden — тема закрыта;
//   - при успехе растёт replies_count темы и обновляется последняя активность.
func (s *Service) CreateComment(ctx context.Context, actor access.Actor, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	lg := log.From(ctx).With(
		"op", op,
		"actor_id", actor.ID.String(),
		"topic_id", in.TopicID,
		"parent_id", in.ParentID,
	)

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	topicID := strings.TrimSpace(in.TopicID)
	if content == "" || topicID == "" {
		lg.Warn("invalid argument: missing fields")
		return nil, fmt.Errorf("%s: content and topic required: %w", op, ErrInvalidArgument)
	}

	topic, err := s.content.TopicByID(ctx, topicID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("topic not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on TopicByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	if topic.IsLocked {
		lg.Warn("topic locked")
		return nil, fmt.Errorf("%s: topic locked: %w", op, ErrForbidden)
	}

	created, err := s.content.CreateComment(ctx, models.Comment{
		Content:  content,
		TopicID:  topic.ID,
		AuthorID: actor.ID,
		ParentID: strings.TrimSpace(in.ParentID),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidID):
			lg.Warn("invalid argument: bad parent_id")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("storage error on CreateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return created, nil
}

// UpdateComment меняет текст комментария; edited_at выставляется всегда,
// даже если content не передан или пуст.
func (s *Service) UpdateComment(ctx context.Context, actor access.Actor, id string, content *string) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	comment, err := s.commentForModify(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.content.UpdateComment(ctx, comment.ID, storage.CommentUpdate{
		Content:  optText(content),
		EditedAt: s.now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return updated, nil
}

// DeleteComment — жёсткое удаление с уменьшением replies_count темы.
func (s *Service) DeleteComment(ctx context.Context, actor access.Actor, id string) error {
	const op = "service/comments/DeleteComment"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return err
	}

	comment, err := s.commentForModify(ctx, op, actor, id)
	if err != nil {
		return err
	}

	if err := s.content.DeleteComment(ctx, comment.ID, comment.TopicID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteComment", "err", err)
			return fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return nil
}

// LikeComment атомарно увеличивает likes. Повторные лайки не дедуплицируются.
func (s *Service) LikeComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "service/comments/LikeComment"

	lg := log.From(ctx).With("op", op, "id", id)

	updated, err := s.content.LikeComment(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on LikeComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return updated, nil
}

func (s *Service) commentForModify(ctx context.Context, op string, actor access.Actor, id string) (*models.Comment, error) {
	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	comment, err := s.content.CommentByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CommentByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	if !access.CanModify(actor, comment.AuthorID) {
		lg.Warn("forbidden")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return comment, nil
}
