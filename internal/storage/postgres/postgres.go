// Package postgres реализует storage.IdentityStorage поверх PostgreSQL:
// users.go — учётные записи, memberships.go — подписки и закладки,
// refresh_sessions.go — refresh-сессии, migrate.go — применение миграций.
package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage — пул соединений к БД учётных записей.
type Storage struct {
	db *pgxpool.Pool
}

// psql — построитель запросов с плейсхолдерами $N.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New создаёт пул и проверяет соединение.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Ping — проверка готовности для /healthz.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// pgCode возвращает SQLSTATE ошибки PostgreSQL или пустую строку.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

// Проверка на соответствие интерфейсу.
var _ storage.IdentityStorage = (*Storage)(nil)
