package postgres

import (
	"context"
	"fmt"

	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
)

// Таблицы множеств пользователя; имена не приходят извне.
const (
	subscriptionsTable = "topic_subscriptions"
	bookmarksTable     = "topic_bookmarks"
)

// addMember — идемпотентное добавление в множество. Несуществующий пользователь -> ErrNotFound.
func (s *Storage) addMember(ctx context.Context, op, table string, userID uuid.UUID, topicID string) error {
	q := `INSERT INTO ` + table + `(user_id, topic_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := s.db.Exec(ctx, q, userID, topicID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// removeMember — идемпотентное удаление; отсутствие записи не ошибка.
func (s *Storage) removeMember(ctx context.Context, op, table string, userID uuid.UUID, topicID string) error {
	q := `DELETE FROM ` + table + ` WHERE user_id = $1 AND topic_id = $2`

	if _, err := s.db.Exec(ctx, q, userID, topicID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) AddSubscription(ctx context.Context, userID uuid.UUID, topicID string) error {
	return s.addMember(ctx, "storage/postgres/AddSubscription", subscriptionsTable, userID, topicID)
}

func (s *Storage) RemoveSubscription(ctx context.Context, userID uuid.UUID, topicID string) error {
	return s.removeMember(ctx, "storage/postgres/RemoveSubscription", subscriptionsTable, userID, topicID)
}

func (s *Storage) AddBookmark(ctx context.Context, userID uuid.UUID, topicID string) error {
	return s.addMember(ctx, "storage/postgres/AddBookmark", bookmarksTable, userID, topicID)
}

func (s *Storage) RemoveBookmark(ctx context.Context, userID uuid.UUID, topicID string) error {
	return s.removeMember(ctx, "storage/postgres/RemoveBookmark", bookmarksTable, userID, topicID)
}

// Memberships возвращает подписки и закладки пользователя (порядок добавления).
func (s *Storage) Memberships(ctx context.Context, userID uuid.UUID) ([]string, []string, error) {
	const op = "storage/postgres/Memberships"

	subs, err := s.topicIDs(ctx, subscriptionsTable, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: subscriptions: %w", op, err)
	}

	marks, err := s.topicIDs(ctx, bookmarksTable, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: bookmarks: %w", op, err)
	}

	return subs, marks, nil
}

func (s *Storage) topicIDs(ctx context.Context, table string, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT topic_id FROM `+table+` WHERE user_id = $1 ORDER BY created_at, topic_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		out = append(out, id)
	}

	return out, rows.Err()
}
