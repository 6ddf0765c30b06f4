package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveRefreshSession сохраняет запись refresh-токена. Коллизия хэша -> storage.ErrAlreadyExists.
func (s *Storage) SaveRefreshSession(ctx context.Context, session *models.RefreshSession) error {
	const op = "storage/postgres/SaveRefreshSession"

	query := `
		INSERT INTO refresh_tokens(token_hash, user_id, created_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		session.TokenHash,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
		session.Revoked,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshSessionByHash находит сессию по хэшу токена.
func (s *Storage) RefreshSessionByHash(ctx context.Context, hash string) (*models.RefreshSession, error) {
	const op = "storage/postgres/RefreshSessionByHash"

	query := `
		SELECT token_hash, user_id, created_at, expires_at, revoked
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var rs models.RefreshSession
	err := s.db.QueryRow(ctx, query, hash).Scan(
		&rs.TokenHash,
		&rs.UserID,
		&rs.CreatedAt,
		&rs.ExpiresAt,
		&rs.Revoked,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rs.CreatedAt = rs.CreatedAt.UTC()
	rs.ExpiresAt = rs.ExpiresAt.UTC()

	return &rs, nil
}

// RevokeRefreshSession отзывает сессию, если она ещё активна.
//
//	(true, nil)  — отозвана сейчас;
//	(false, nil) — уже была отозвана;
//	(false, ErrNotFound) — сессии нет.
func (s *Storage) RevokeRefreshSession(ctx context.Context, hash string) (bool, error) {
	const op = "storage/postgres/RevokeRefreshSession"

	const upd = `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token_hash = $1 AND revoked = FALSE
		RETURNING user_id
	`

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, upd, hash).Scan(&userID)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var revoked bool
	err = s.db.QueryRow(ctx, `SELECT revoked FROM refresh_tokens WHERE token_hash = $1`, hash).Scan(&revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// RevokeUserSessions отзывает все активные сессии пользователя и возвращает их хэши
// (чтобы вычистить их из кэша).
func (s *Storage) RevokeUserSessions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "storage/postgres/RevokeUserSessions"

	rows, err := s.db.Query(ctx, `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE user_id = $1 AND revoked = FALSE
		RETURNING token_hash
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return hashes, nil
}

// DeleteExpiredSessions удаляет просроченные сессии.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	const op = "storage/postgres/DeleteExpiredSessions"

	if _, err := s.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
