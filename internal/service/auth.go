package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/access"
	"github.com/Vladiumnika/forumblackdynasty/internal/challenge"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/redact"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput — регистрация по username/email/паролю с ответом reCAPTCHA.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Challenge string
	RemoteIP  string
}

// RegisterResult — созданный пользователь и результат отправки письма.
type RegisterResult struct {
	User      *models.User
	EmailSent bool
}

// LoginInput — вход по email и паролю.
type LoginInput struct {
	Email     string
	Password  string
	Challenge string
	RemoteIP  string
}

// LoginResult — выданная пара токенов и профиль.
type LoginResult struct {
	Tokens *models.TokenPair
	User   *models.User
}

// Register — создание учётной записи.
//
// Валидация:
//   - reCAPTCHA проверяется первой (нет токена или отказ -> ErrInvalidArgument);
//   - username, email и пароль обязательны; email приводится к нижнему регистру;
//   - пароль не короче auth.password_min_length.
//
// Поведение/ошибки:
//   - ErrConflict — email уже занят;
//   - ErrDependency — недоступен провайдер reCAPTCHA или хранилище;
//   - неудачная отправка письма не откатывает регистрацию: EmailSent=false.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	const op = "service/auth/Register"

	lg := log.From(ctx).With("op", op, "email", redact.Email(in.Email))

	if err := s.verifyChallenge(ctx, in.Challenge, in.RemoteIP); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		lg.Warn("invalid argument: empty username")
		return nil, fmt.Errorf("%s: username required: %w", op, ErrInvalidArgument)
	}

	email, err := validateEmail(in.Email)
	if err != nil {
		lg.Warn("invalid argument: bad email")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validatePassword(in.Password); err != nil {
		lg.Warn("invalid argument: weak password")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.identity.UserByEmail(ctx, email)
	switch {
	case err == nil:
		lg.Warn("email already taken")
		return nil, fmt.Errorf("%s: email taken: %w", op, ErrConflict)
	case !errors.Is(err, storage.ErrNotFound):
		lg.Error("storage error on UserByEmail", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		lg.Error("password hash failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	token, err := newOpaqueToken()
	if err != nil {
		lg.Error("verification token rand failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	now := s.now()
	expires := now.Add(s.auth.VerificationTTL)

	user := &models.User{
		ID:                         uuid.New(),
		Username:                   username,
		Email:                      email,
		PasswordHash:               hash,
		Role:                       models.RoleUser,
		EmailVerificationTokenHash: hashToken(token),
		EmailVerificationExpiresAt: &expires,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	if err := s.identity.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Warn("email already taken")
			return nil, fmt.Errorf("%s: email taken: %w", op, ErrConflict)
		}

		lg.Error("storage error on SaveUser", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	sent := true
	if err := s.notifier.SendVerification(ctx, user.Email, user.Username, token); err != nil {
		lg.Warn("verification email not sent", "user_id", user.ID.String(), "err", err)
		sent = false
	}

	lg.Info("user registered", "user_id", user.ID.String())

	return &RegisterResult{User: user, EmailSent: sent}, nil
}

// Login — вход по email и паролю.
//
// Поведение/ошибки:
//   - ErrUnauthorized — неизвестный email или неверный пароль (одинаково);
//   - ErrForbidden — email не подтверждён;
//   - при успехе обновляется last_seen_at (ошибка только логируется).
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	const op = "service/auth/Login"

	lg := log.From(ctx).With("op", op, "email", redact.Email(in.Email))

	if err := s.verifyChallenge(ctx, in.Challenge, in.RemoteIP); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	email, err := validateEmail(in.Email)
	if err != nil || in.Password == "" {
		lg.Warn("invalid credentials")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user, err := s.identity.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("invalid credentials")
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		lg.Error("storage error on UserByEmail", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if !checkPassword(user.PasswordHash, in.Password) {
		lg.Warn("invalid credentials", "user_id", user.ID.String())
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if !user.EmailVerified {
		lg.Warn("email not verified", "user_id", user.ID.String())
		return nil, fmt.Errorf("%s: email not verified: %w", op, ErrForbidden)
	}

	pair, err := s.issueTokenPair(ctx, user, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	if err := s.identity.TouchLastSeen(ctx, user.ID, now); err != nil {
		lg.Warn("last seen not updated", "user_id", user.ID.String(), "err", err)
	} else {
		user.LastSeenAt = &now
	}

	return &LoginResult{Tokens: pair, User: user}, nil
}

// VerifyEmail — подтверждение email по токену из письма.
// Пустой, неизвестный или просроченный токен -> ErrInvalidArgument.
// Приветственное письмо отправляется после подтверждения; его сбой только логируется.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	const op = "service/auth/VerifyEmail"

	lg := log.From(ctx).With("op", op, "token", redact.Token(token))

	token = strings.TrimSpace(token)
	if token == "" {
		lg.Warn("invalid argument: empty token")
		return fmt.Errorf("%s: token required: %w", op, ErrInvalidArgument)
	}

	user, err := s.identity.UserByVerificationToken(ctx, hashToken(token), s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("verification token unknown or expired")
			return fmt.Errorf("%s: invalid or expired token: %w", op, ErrInvalidArgument)
		}

		lg.Error("storage error on UserByVerificationToken", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if err := s.identity.MarkEmailVerified(ctx, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("user disappeared", "user_id", user.ID.String())
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on MarkEmailVerified", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if err := s.notifier.SendWelcome(ctx, user.Email, user.Username); err != nil {
		lg.Warn("welcome email not sent", "user_id", user.ID.String(), "err", err)
	}

	return nil
}

// ResendVerification выпускает новый токен подтверждения.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой email или email уже подтверждён;
//   - ErrNotFound — учётной записи нет;
//   - ErrDependency — письмо не отправлено (в отличие от Register).
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	const op = "service/auth/ResendVerification"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	norm, err := validateEmail(email)
	if err != nil {
		lg.Warn("invalid argument: bad email")
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByEmail(ctx, norm)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("user not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on UserByEmail", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if user.EmailVerified {
		lg.Warn("email already verified", "user_id", user.ID.String())
		return fmt.Errorf("%s: already verified: %w", op, ErrInvalidArgument)
	}

	token, err := newOpaqueToken()
	if err != nil {
		lg.Error("verification token rand failed", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.identity.SetVerificationToken(ctx, user.ID, hashToken(token), s.now().Add(s.auth.VerificationTTL)); err != nil {
		lg.Error("storage error on SetVerificationToken", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if err := s.notifier.SendVerification(ctx, user.Email, user.Username, token); err != nil {
		lg.Error("verification email not sent", "user_id", user.ID.String(), "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	return nil
}

// ForgotPassword выпускает токен сброса пароля.
// Неизвестный email — молчаливый успех, чтобы не раскрывать наличие аккаунта.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "service/auth/ForgotPassword"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	norm, err := validateEmail(email)
	if err != nil {
		lg.Warn("invalid argument: bad email")
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByEmail(ctx, norm)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Info("reset requested for unknown email")
			return nil
		}

		lg.Error("storage error on UserByEmail", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	token, err := newOpaqueToken()
	if err != nil {
		lg.Error("reset token rand failed", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.identity.SetResetToken(ctx, user.ID, hashToken(token), s.now().Add(s.auth.ResetTTL)); err != nil {
		lg.Error("storage error on SetResetToken", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Username, token); err != nil {
		lg.Warn("reset email not sent", "user_id", user.ID.String(), "err", err)
	}

	return nil
}

// ResetPassword — установка нового пароля по токену сброса.
// Все refresh-сессии пользователя отзываются.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	const op = "service/auth/ResetPassword"

	lg := log.From(ctx).With("op", op, "token", redact.Token(token))

	token = strings.TrimSpace(token)
	if token == "" {
		lg.Warn("invalid argument: empty token")
		return fmt.Errorf("%s: token required: %w", op, ErrInvalidArgument)
	}

	if err := s.validatePassword(password); err != nil {
		lg.Warn("invalid argument: weak password")
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByResetToken(ctx, hashToken(token), s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("reset token unknown or expired")
			return fmt.Errorf("%s: invalid or expired token: %w", op, ErrInvalidArgument)
		}

		lg.Error("storage error on UserByResetToken", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		lg.Error("password hash failed", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.identity.UpdatePassword(ctx, user.ID, hash); err != nil {
		lg.Error("storage error on UpdatePassword", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	hashes, err := s.identity.RevokeUserSessions(ctx, user.ID)
	if err != nil {
		lg.Error("storage error on RevokeUserSessions", "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}

	s.invalidateSessions(ctx, hashes...)

	lg.Info("password reset", "user_id", user.ID.String(), "revoked_sessions", len(hashes))

	return nil
}

// Refresh ротирует refresh-токен: старая сессия отзывается, выдаётся новая пара.
// Неизвестный, просроченный или отозванный токен -> ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service/auth/Refresh"

	session, hash, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		log.From(ctx).Error("storage error on UserByID", "op", op, "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	return s.issueTokenPair(ctx, user, hash)
}

// Logout отзывает refresh-сессию. Повторный вызов и неизвестный токен не ошибка.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service/auth/Logout"

	if refreshToken == "" {
		return fmt.Errorf("%s: token required: %w", op, ErrInvalidArgument)
	}

	if _, err := s.revokeRefresh(ctx, hashToken(refreshToken)); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Authenticate проверяет access-токен и возвращает актора с текущей ролью из БД.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (access.Actor, error) {
	const op = "service/auth/Authenticate"

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.identity.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return access.Actor{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		log.From(ctx).Error("storage error on UserByID", "op", op, "err", err)
		return access.Actor{}, fmt.Errorf("%s: %w", op, ErrDependency)
	}

	return access.Actor{ID: user.ID, Role: user.Role}, nil
}

// verifyChallenge маппит ошибки шлюза reCAPTCHA на ошибки сервиса.
func (s *Service) verifyChallenge(ctx context.Context, token, remoteIP string) error {
	const op = "service/auth/verifyChallenge"

	err := s.challenge.Verify(ctx, token, remoteIP)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, challenge.ErrMissing), errors.Is(err, challenge.ErrRejected):
		log.From(ctx).Warn("challenge failed", "op", op, "err", err)
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	default:
		log.From(ctx).Error("challenge provider error", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, ErrDependency)
	}
}

// hashPassword хэширует пароль bcrypt с настроенной стоимостью.
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service/auth/hashPassword"

	cost := s.auth.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и приводит его к нижнему регистру.
func validateEmail(raw string) (string, error) {
	const op = "service/auth/validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: email required: %w", op, ErrInvalidArgument)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%s: invalid email: %w", op, ErrInvalidArgument)
	}

	return strings.ToLower(email), nil
}

// maxPasswordBytes — предел bcrypt: длиннее GenerateFromPassword не принимает.
const maxPasswordBytes = 72

// validatePassword — непустой, не короче auth.password_min_length символов
// и не длиннее maxPasswordBytes байт.
func (s *Service) validatePassword(pw string) error {
	const op = "service/auth/validatePassword"

	if pw == "" {
		return fmt.Errorf("%s: password required: %w", op, ErrInvalidArgument)
	}

	if len([]rune(pw)) < s.auth.PasswordMinLength {
		return fmt.Errorf("%s: password too short: %w", op, ErrInvalidArgument)
	}

	if len(pw) > maxPasswordBytes {
		return fmt.Errorf("%s: password too long: %w", op, ErrInvalidArgument)
	}

	return nil
}
