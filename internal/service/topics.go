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

// ListTopicsInput — страница тем категории с необязательным поиском.
type ListTopicsInput struct {
	CategoryID string
	Query      string
	Page       int
	PageSize   int
}

// SearchInput — глобальный поиск по всем категориям.
type SearchInput struct {
	Query    string
	Page     int
	PageSize int
}

// CreateTopicInput — новая тема.
type CreateTopicInput struct {
	Title      string
	Content    string
	CategoryID string
}

// UpdateTopicInput — частичное обновление темы.
// IsLocked/IsPinned применяются только для moderator/admin.
type UpdateTopicInput struct {
	Title    *string
	Content  *string
	IsLocked *bool
	IsPinned *bool
}

// ListTopics — страница тем категории: закреплённые, затем по последней активности.
// Query ищется как литерал без учёта регистра в title или content.
// Items и Total читаются параллельно и не образуют снимок.
func (s *Service) ListTopics(ctx context.Context, in ListTopicsInput) (*models.Page[models.Topic], error) {
	const op = "service/topics/ListTopics"

	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID == "" {
		log.From(ctx).Warn("invalid argument: empty category_id", "op", op)
		return nil, fmt.Errorf("%s: category id required: %w", op, ErrInvalidArgument)
	}

	page, err := s.topicsPage(ctx, models.TopicFilter{CategoryID: categoryID, Query: strings.TrimSpace(in.Query)}, in.Page, in.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.enrichTopics(ctx, page.Items, false)

	return page, nil
}

// GlobalSearch — поиск по всем темам; каждая тема несёт имя своей категории.
// Пустой запрос возвращает все темы.
func (s *Service) GlobalSearch(ctx context.Context, in SearchInput) (*models.Page[models.Topic], error) {
	const op = "service/topics/GlobalSearch"

	page, err := s.topicsPage(ctx, models.TopicFilter{Query: strings.TrimSpace(in.Query)}, in.Page, in.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.enrichTopics(ctx, page.Items, true)

	return page, nil
}

func (s *Service) topicsPage(ctx context.Context, filter models.TopicFilter, page, pageSize int) (*models.Page[models.Topic], error) {
	const op = "service/topics/topicsPage"

	params := s.listParams(page, pageSize)

	var (
		items []models.Topic
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		items, err = s.content.ListTopics(gctx, filter, params)
		return err
	})

	g.Go(func() error {
		var err error
		total, err = s.content.CountTopics(gctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		log.From(ctx).Error("storage error on ListTopics", "op", op, "category_id", filter.CategoryID, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if items == nil {
		items = []models.Topic{}
	}

	return &models.Page[models.Topic]{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

// enrichTopics подставляет имена авторов и, при withCategory, имена категорий.
func (s *Service) enrichTopics(ctx context.Context, topics []models.Topic, withCategory bool) {
	if len(topics) == 0 {
		return
	}

	authors := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		authors = append(authors, t.AuthorID)
	}

	names := s.authorNames(ctx, authors)

	var categories map[string]string
	if withCategory {
		categories = s.categoryNames(ctx, topics)
	}

	for i := range topics {
		topics[i].AuthorName = names[topics[i].AuthorID]
		if categories != nil {
			topics[i].CategoryName = categories[topics[i].CategoryID]
		}
	}
}

func (s *Service) categoryNames(ctx context.Context, topics []models.Topic) map[string]string {
	seen := make(map[string]struct{}, len(topics))
	ids := make([]string, 0, len(topics))

	for _, t := range topics {
		if _, ok := seen[t.CategoryID]; ok {
			continue
		}
		seen[t.CategoryID] = struct{}{}
		ids = append(ids, t.CategoryID)
	}

	cats, err := s.content.CategoriesByIDs(ctx, ids)
	if err != nil {
		log.From(ctx).Warn("category names unavailable", "op", "service/topics/categoryNames", "err", err)
		return map[string]string{}
	}

	out := make(map[string]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}

	return out
}

// GetTopic читает тему с атомарным увеличением просмотров.
func (s *Service) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	const op = "service/topics/GetTopic"

	lg := log.From(ctx).With("op", op, "id", id)

	topic, err := s.content.ViewTopic(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("topic not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ViewTopic", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	topic.AuthorName = s.authorNames(ctx, []uuid.UUID{topic.AuthorID})[topic.AuthorID]

	return topic, nil
}

// CreateTopic — создание темы от имени актора.
//
// Валидация:
//   - Title, Content и CategoryID обязательны;
//   - CategoryID проверяется только по формату, существование категории не проверяется.
func (s *Service) CreateTopic(ctx context.Context, actor access.Actor, in CreateTopicInput) (*models.Topic, error) {
	const op = "service/topics/CreateTopic"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String(), "category_id", in.CategoryID)

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	categoryID := strings.TrimSpace(in.CategoryID)

	if title == "" || content == "" || categoryID == "" {
		lg.Warn("invalid argument: missing fields")
		return nil, fmt.Errorf("%s: title, content and category required: %w", op, ErrInvalidArgument)
	}

	if !models.IsValidID(categoryID) {
		lg.Warn("invalid argument: bad category_id")
		return nil, fmt.Errorf("%s: invalid category id: %w", op, ErrInvalidArgument)
	}

	created, err := s.content.CreateTopic(ctx, models.Topic{
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		AuthorID:   actor.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidID):
			lg.Warn("invalid argument: bad category_id")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		default:
			lg.Error("storage error on CreateTopic", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return created, nil
}

// UpdateTopic — изменение темы автором или модератором.
//
// Поведение/ошибки:
//   - ErrNotFound — темы нет;
//   - ErrForbidden — актор не автор и не moderator/admin;
//   - пустые title/content не применяются;
//   - IsLocked/IsPinned от обычного пользователя молча игнорируются.
func (s *Service) UpdateTopic(ctx context.Context, actor access.Actor, id string, in UpdateTopicInput) (*models.Topic, error) {
	const op = "service/topics/UpdateTopic"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return nil, err
	}

	topic, err := s.topicForModify(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}

	update := storage.TopicUpdate{Title: optText(in.Title), Content: optText(in.Content)}
	if access.IsModerator(actor) {
		update.IsLocked = in.IsLocked
		update.IsPinned = in.IsPinned
	}

	updated, err := s.content.UpdateTopic(ctx, topic.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("topic not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateTopic", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return updated, nil
}

// DeleteTopic удаляет тему вместе с её комментариями.
func (s *Service) DeleteTopic(ctx context.Context, actor access.Actor, id string) error {
	const op = "service/topics/DeleteTopic"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := requireActor(op, actor); err != nil {
		return err
	}

	topic, err := s.topicForModify(ctx, op, actor, id)
	if err != nil {
		return err
	}

	if err := s.content.DeleteTopic(ctx, topic.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("topic not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteTopic", "err", err)
			return fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	lg.Info("topic deleted")

	return nil
}

// topicForModify читает тему без учёта просмотра и проверяет CanModify.
func (s *Service) topicForModify(ctx context.Context, op string, actor access.Actor, id string) (*models.Topic, error) {
	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	topic, err := s.content.TopicByID(ctx, id)
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

	if !access.CanModify(actor, topic.AuthorID) {
		lg.Warn("forbidden")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return topic, nil
}
