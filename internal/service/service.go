// service содержит бизнес-логику форума: учётные записи и токены,
// категории, темы, комментарии, подписки/закладки, профиль и администрирование.
//
// Основные аспекты:
//   - Service не хранит состояние запроса и безопасен для конкурентного
//     использования, если потокобезопасны переданные зависимости;
//   - права проверяются только через пакет access (CanModify/HasRole);
//   - ошибки хранилищ и шлюзов маппятся на сентинелы ниже, транспорт
//     переводит их в HTTP-статусы (см. internal/errors).
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/cache"
	"github.com/Vladiumnika/forumblackdynasty/internal/challenge"
	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/notify"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrInvalidArgument — входные данные не прошли валидацию (HTTP 400).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность отсутствует (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrForbidden — у актора нет прав на операцию (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized — неверные учётные данные или токен (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict — нарушение уникальности, например занятый email (HTTP 409).
	ErrConflict = errors.New("conflict")
	// ErrDependency — отказ хранилища или внешнего шлюза (HTTP 502).
	ErrDependency = errors.New("dependency failure")
	// ErrInternal — внутренняя ошибка: bcrypt, генерация случайных байт, подпись JWT (HTTP 500).
	ErrInternal = errors.New("internal")
)

// Deps — внешние зависимости сервиса.
type Deps struct {
	Content   storage.ContentStorage
	Identity  storage.IdentityStorage
	Avatars   storage.AvatarsStorage
	Notifier  notify.Notifier
	Challenge challenge.Verifier
	// Sessions — кэш refresh-сессий; nil, если Redis не сконфигурирован.
	Sessions cache.SessionCache
}

// Service описывает бизнес-логику forum-service.
type Service struct {
	content   storage.ContentStorage
	identity  storage.IdentityStorage
	avatars   storage.AvatarsStorage
	notifier  notify.Notifier
	challenge challenge.Verifier
	sessions  cache.SessionCache

	auth   config.AuthConfig
	limits config.LimitsConfig
	now    func() time.Time
}

// New создаёт новый экземпляр Service.
func New(cfg *config.Config, deps Deps) *Service {
	return &Service{
		content:   deps.Content,
		identity:  deps.Identity,
		avatars:   deps.Avatars,
		notifier:  deps.Notifier,
		challenge: deps.Challenge,
		sessions:  deps.Sessions,
		auth:      cfg.Auth,
		limits:    cfg.Limits,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// listParams нормализует пагинацию: page<1 -> 1, page_size<=0 -> Default, > Max -> Max,
// слишком большой page прижимается к последней адресуемой странице.
func (s *Service) listParams(page, pageSize int) models.ListParams {
	if page < 1 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = s.limits.Default
	}

	if s.limits.Max > 0 && pageSize > s.limits.Max {
		pageSize = s.limits.Max
	}

	// Смещение (page-1)*pageSize не должно переполнить int64: дальше этой
	// страницы выборка всё равно пустая.
	if maxPage := math.MaxInt64 / int64(max(pageSize, 1)); int64(page-1) > maxPage {
		page = int(maxPage)
	}

	return models.ListParams{Page: page, PageSize: pageSize}
}

// requireActor — операции от имени пользователя требуют аутентифицированного актора.
func requireActor(op string, actor access.Actor) error {
	if actor.ID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return nil
}

// authorNames подставляет имена авторов. Ошибка БД учётных записей
// не ломает выдачу контента: имена остаются пустыми.
func (s *Service) authorNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return map[uuid.UUID]string{}
	}

	names, err := s.identity.UsernamesByIDs(ctx, ids)
	if err != nil {
		log.From(ctx).Warn("author names unavailable", "op", "service/authorNames", "err", err)
		return map[uuid.UUID]string{}
	}

	return names
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// optText обрезает пробелы; пустая строка равносильна отсутствию поля.
func optText(p *string) *string {
	if p == nil {
		return nil
	}

	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}

	return &v
}
