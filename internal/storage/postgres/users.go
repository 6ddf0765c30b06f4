package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// userColumns — единый порядок колонок для SELECT/RETURNING и scanUser.
const userColumns = `
id, username, email, password_hash, role, email_verified,
email_verification_token_hash, email_verification_expires_at,
password_reset_token_hash, password_reset_expires_at,
avatar_url, avatar_key, bio, last_seen_at, created_at, updated_at
`

// scanUser сканирует строку users; NULL-токены превращаются в пустые строки.
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u           models.User
		role        string
		verifyHash  *string
		resetHash   *string
		verifyUntil *time.Time
		resetUntil  *time.Time
		lastSeen    *time.Time
	)

	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.EmailVerified,
		&verifyHash,
		&verifyUntil,
		&resetHash,
		&resetUntil,
		&u.AvatarURL,
		&u.AvatarKey,
		&u.Bio,
		&lastSeen,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Role = models.Role(role)

	if verifyHash != nil {
		u.EmailVerificationTokenHash = *verifyHash
	}

	if resetHash != nil {
		u.PasswordResetTokenHash = *resetHash
	}

	u.EmailVerificationExpiresAt = utcPtr(verifyUntil)
	u.PasswordResetExpiresAt = utcPtr(resetUntil)
	u.LastSeenAt = utcPtr(lastSeen)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := t.UTC()
	return &v
}

// nullable — пустая строка пишется как NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// SaveUser создаёт пользователя. Ошибки: storage.ErrAlreadyExists при занятом email или id.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage/postgres/SaveUser"

	query := `
		INSERT INTO users(
			id, username, email, password_hash, role, email_verified,
			email_verification_token_hash, email_verification_expires_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(role),
		user.EmailVerified,
		nullable(user.EmailVerificationTokenHash),
		user.EmailVerificationExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// queryUser выполняет SELECT одной записи и приводит pgx.ErrNoRows к storage.ErrNotFound.
func (s *Storage) queryUser(ctx context.Context, op, where string, args ...any) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.queryUser(ctx, "storage/postgres/UserByID", `id = $1`, id)
}

// UserByEmail — поиск без учёта регистра (email CITEXT).
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryUser(ctx, "storage/postgres/UserByEmail", `email = $1`, strings.TrimSpace(email))
}

// UserByVerificationToken — пользователь с данным хэшем токена, срок которого не истёк к now.
func (s *Storage) UserByVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.queryUser(ctx, "storage/postgres/UserByVerificationToken",
		`email_verification_token_hash = $1 AND email_verification_expires_at > $2`, tokenHash, now)
}

// UserByResetToken — аналогично для токена сброса пароля.
func (s *Storage) UserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.queryUser(ctx, "storage/postgres/UserByResetToken",
		`password_reset_token_hash = $1 AND password_reset_expires_at > $2`, tokenHash, now)
}

// execByID выполняет UPDATE по id; 0 затронутых строк -> storage.ErrNotFound.
func (s *Storage) execByID(ctx context.Context, op, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetVerificationToken сохраняет новый хэш токена верификации и срок его действия.
func (s *Storage) SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return s.execByID(ctx, "storage/postgres/SetVerificationToken", `
		UPDATE users
		SET email_verification_token_hash = $2, email_verification_expires_at = $3, updated_at = now()
		WHERE id = $1
	`, id, tokenHash, expiresAt)
}

// MarkEmailVerified выставляет флаг и очищает токен вместе со сроком.
func (s *Storage) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return s.execByID(ctx, "storage/postgres/MarkEmailVerified", `
		UPDATE users
		SET email_verified = TRUE,
		    email_verification_token_hash = NULL,
		    email_verification_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id)
}

func (s *Storage) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return s.execByID(ctx, "storage/postgres/SetResetToken", `
		UPDATE users
		SET password_reset_token_hash = $2, password_reset_expires_at = $3, updated_at = now()
		WHERE id = $1
	`, id, tokenHash, expiresAt)
}

// UpdatePassword сохраняет новый хэш пароля и гасит токен сброса.
func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.execByID(ctx, "storage/postgres/UpdatePassword", `
		UPDATE users
		SET password_hash = $2,
		    password_reset_token_hash = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1
	`, id, passwordHash)
}

func (s *Storage) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.execByID(ctx, "storage/postgres/TouchLastSeen",
		`UPDATE users SET last_seen_at = $2 WHERE id = $1`, id, at)
}

// UpdateProfile обновляет только заданные поля и всегда сдвигает updated_at.
func (s *Storage) UpdateProfile(ctx context.Context, id uuid.UUID, update storage.ProfileUpdate) (*models.User, error) {
	const op = "storage/postgres/UpdateProfile"

	b := psql.Update("users").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	if update.AvatarURL != nil {
		b = b.Set("avatar_url", *update.AvatarURL)
	}

	if update.Bio != nil {
		b = b.Set("bio", *update.Bio)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// ConfirmAvatar фиксирует ключ объекта и публичный URL после проверки загрузки.
func (s *Storage) ConfirmAvatar(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.User, error) {
	const op = "storage/postgres/ConfirmAvatar"

	q := `
		UPDATE users
		SET avatar_key = $2, avatar_url = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, q, id, key, publicURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// likeEscaper экранирует спецсимволы ILIKE: пользовательский ввод ищется как литерал.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListUsers — поиск подстроки в email или username, новые сверху.
func (s *Storage) ListUsers(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	const op = "storage/postgres/ListUsers"

	b := psql.Select("id", "username", "email", "role", "created_at").
		From("users").
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit))

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"email": pattern},
			sq.ILike{"username": pattern},
		})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.UserSummary, 0, limit)
	for rows.Next() {
		var (
			u    models.UserSummary
			role string
		)

		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		u.Role = models.Role(role)
		u.CreatedAt = u.CreatedAt.UTC()
		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// SetRole меняет роль и возвращает карточку пользователя.
func (s *Storage) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.UserSummary, error) {
	const op = "storage/postgres/SetRole"

	q := `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, username, email, role, created_at
	`

	var (
		u   models.UserSummary
		got string
	)

	err := s.db.QueryRow(ctx, q, id, string(role)).Scan(&u.ID, &u.Username, &u.Email, &got, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.Role = models.Role(got)
	u.CreatedAt = u.CreatedAt.UTC()

	return &u, nil
}

// UsernamesByIDs — отображение id -> username; отсутствующие id просто не попадают в карту.
func (s *Storage) UsernamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	const op = "storage/postgres/UsernamesByIDs"

	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.Query(ctx, `SELECT id, username FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)

		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		out[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
