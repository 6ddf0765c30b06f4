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
)

// CreateCategoryInput — новая категория; Description и Order необязательны.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Order       *int
}

// UpdateCategoryInput — частичное обновление; nil-поля не меняются.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Order       *int
}

// categoryStaff — роли, которым доступно управление категориями.
var categoryStaff = []models.Role{models.RoleAdmin, models.RoleModerator}

// ListCategories — все категории, order ASC, name ASC, без пагинации.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service/categories/ListCategories"

	items, err := s.content.ListCategories(ctx)
	if err != nil {
		log.From(ctx).Error("storage error on ListCategories", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	return items, nil
}

// CreateCategory — создание категории.
//
// Валидация:
//   - актор должен быть admin или moderator (иначе ErrForbidden);
//   - Name после TrimSpace не пустой.
func (s *Service) CreateCategory(ctx context.Context, actor access.Actor, in CreateCategoryInput) (*models.Category, error) {
	const op = "service/categories/CreateCategory"

	lg := log.From(ctx).With("op", op, "actor_id", actor.ID.String())

	if err := authorizeStaff(op, actor); err != nil {
		lg.Warn("forbidden")
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		lg.Warn("invalid argument: empty name")
		return nil, fmt.Errorf("%s: name required: %w", op, ErrInvalidArgument)
	}

	c := models.Category{Name: name}
	if in.Description != nil {
		c.Description = *in.Description
	}

	if in.Order != nil {
		c.Order = *in.Order
	}

	created, err := s.content.CreateCategory(ctx, c)
	if err != nil {
		lg.Error("storage error on CreateCategory", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	return created, nil
}

// UpdateCategory применяет только переданные поля.
// Пустое имя в запросе -> ErrInvalidArgument, отсутствие категории -> ErrNotFound.
func (s *Service) UpdateCategory(ctx context.Context, actor access.Actor, id string, in UpdateCategoryInput) (*models.Category, error) {
	const op = "service/categories/UpdateCategory"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := authorizeStaff(op, actor); err != nil {
		lg.Warn("forbidden")
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			lg.Warn("invalid argument: empty name")
			return nil, fmt.Errorf("%s: name required: %w", op, ErrInvalidArgument)
		}
		in.Name = &name
	}

	updated, err := s.content.UpdateCategory(ctx, id, storage.CategoryUpdate{
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("category not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateCategory", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	return updated, nil
}

// DeleteCategory удаляет категорию каскадно: комментарии её тем, темы, саму категорию.
func (s *Service) DeleteCategory(ctx context.Context, actor access.Actor, id string) error {
	const op = "service/categories/DeleteCategory"

	lg := log.From(ctx).With("op", op, "id", id, "actor_id", actor.ID.String())

	if err := authorizeStaff(op, actor); err != nil {
		lg.Warn("forbidden")
		return err
	}

	if err := s.content.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("category not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteCategory", "err", err)
			return fmt.Errorf("%s: %w", op, ErrDependency)
		}
	}

	lg.Info("category deleted")

	return nil
}

func authorizeStaff(op string, actor access.Actor) error {
	if err := requireActor(op, actor); err != nil {
		return err
	}

	if !access.HasRole(actor, categoryStaff...) {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return nil
}
