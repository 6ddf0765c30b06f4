package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// generateAccessToken подписывает access-токен с uid и ролью (HS256).
func (s *Service) generateAccessToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service/token/generateAccessToken"

	claims := accessClaims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.auth.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.auth.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{s.auth.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed", "op", op, "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return signed, nil
}

// parseAccessToken проверяет подпись, срок, issuer и audience.
// Любая ошибка разбора -> ErrUnauthorized.
func (s *Service) parseAccessToken(tokenStr string) (models.AccessClaims, error) {
	const op = "service/token/parseAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: unexpected signing method", op)
			}

			return []byte(s.auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.auth.Issuer),
		jwt.WithAudience(s.auth.Audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.AccessClaims{}, fmt.Errorf("%s: token expired: %w", op, ErrUnauthorized)
		}

		return models.AccessClaims{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return models.AccessClaims{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.AccessClaims{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return models.AccessClaims{UserID: uid, Role: models.Role(claims.Role)}, nil
}

// hashToken — SHA-256 в base64url; в БД хранятся только хэши.
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// newOpaqueToken — 32 случайных байта в hex для ссылок из писем.
func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// generateRefreshToken создаёт refresh-сессию и возвращает открытый токен.
// Коллизия хэша повторяется до maxAttempts раз.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, time.Time, error) {
	const (
		op          = "service/token/generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed", "err", err)
			return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrInternal)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)

		session := &models.RefreshSession{
			TokenHash: hashToken(plain),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.auth.RefreshTTL),
		}

		if err := s.identity.SaveRefreshSession(ctx, session); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_refresh_session_failed", "err", err)
			return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrDependency)
		}

		if s.sessions != nil {
			if err := s.sessions.Put(ctx, session); err != nil {
				lg.Warn("refresh_cache_put_failed", "err", err)
			}
		}

		return plain, session.ExpiresAt, nil
	}

	lg.Error("refresh_collision_exceeded")

	return "", time.Time{}, fmt.Errorf("%s: %w", op, ErrInternal)
}

// refreshSession ищет сессию сначала в кэше, затем в БД.
func (s *Service) refreshSession(ctx context.Context, hash string) (*models.RefreshSession, error) {
	const op = "service/token/refreshSession"

	lg := log.From(ctx).With("op", op)

	if s.sessions != nil {
		session, ok, err := s.sessions.Get(ctx, hash)
		switch {
		case err != nil:
			lg.Warn("refresh_cache_get_failed", "err", err)
		case ok:
			return session, nil
		}
	}

	session, err := s.identity.RefreshSessionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found")
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		lg.Error("refresh_lookup_failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if s.sessions != nil && !session.Revoked {
		if err := s.sessions.Put(ctx, session); err != nil {
			lg.Warn("refresh_cache_put_failed", "err", err)
		}
	}

	return session, nil
}

// validateRefreshToken возвращает действующую сессию и её хэш.
func (s *Service) validateRefreshToken(ctx context.Context, plain string) (*models.RefreshSession, string, error) {
	const op = "service/token/validateRefreshToken"

	if plain == "" {
		return nil, "", fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	hash := hashToken(plain)

	session, err := s.refreshSession(ctx, hash)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx).With("op", op, "user_id", session.UserID.String())

	if session.Revoked {
		lg.Warn("refresh_revoked")
		return nil, "", fmt.Errorf("%s: token revoked: %w", op, ErrUnauthorized)
	}

	if !s.now().Before(session.ExpiresAt) {
		lg.Warn("refresh_expired")
		return nil, "", fmt.Errorf("%s: token expired: %w", op, ErrUnauthorized)
	}

	return session, hash, nil
}

// revokeRefresh отзывает сессию и сбрасывает кэш.
// Повторный отзыв: revoked=false без ошибки.
func (s *Service) revokeRefresh(ctx context.Context, hash string) (bool, error) {
	const op = "service/token/revokeRefresh"

	lg := log.From(ctx).With("op", op)

	revoked, err := s.identity.RevokeRefreshSession(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		lg.Error("refresh_revoke_failed", "err", err)
		return false, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	s.invalidateSessions(ctx, hash)

	return revoked, nil
}

func (s *Service) invalidateSessions(ctx context.Context, hashes ...string) {
	if s.sessions == nil || len(hashes) == 0 {
		return
	}

	if err := s.sessions.Invalidate(ctx, hashes...); err != nil {
		log.From(ctx).Warn("refresh_cache_invalidate_failed", "op", "service/token/invalidateSessions", "err", err)
	}
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", старая сессия отзывается; уже отозванная -> ErrUnauthorized.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldRefreshHash string) (*models.TokenPair, error) {
	const op = "service/token/issueTokenPair"

	now := s.now()

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if oldRefreshHash != "" {
		revoked, err := s.revokeRefresh(ctx, oldRefreshHash)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			log.From(ctx).Warn("refresh_reuse_detected", "op", op, "user_id", user.ID.String())
			return nil, fmt.Errorf("%s: token revoked: %w", op, ErrUnauthorized)
		}
	}

	plain, refreshExp, err := s.generateRefreshToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     plain,
		AccessExpiresAt:  now.Add(s.auth.AccessTTL),
		RefreshExpiresAt: refreshExp,
	}, nil
}
