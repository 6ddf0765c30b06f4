// Package models содержит доменные сущности форума.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role — роль пользователя.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid сообщает, что роль входит в известный набор.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// User — учётная запись (PostgreSQL).
//   - Email уникален без учёта регистра;
//   - токены верификации и сброса хранятся только в виде SHA-256 хэшей;
//   - SubscribedTopicIDs/BookmarkedTopicIDs — множества ID тем, порядок не важен.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         Role

	EmailVerified              bool
	EmailVerificationTokenHash string
	EmailVerificationExpiresAt *time.Time
	PasswordResetTokenHash     string
	PasswordResetExpiresAt     *time.Time

	AvatarURL  string
	AvatarKey  string
	Bio        string
	LastSeenAt *time.Time

	SubscribedTopicIDs []string
	BookmarkedTopicIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary — урезанная карточка пользователя для админских списков.
type UserSummary struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Role      Role
	CreatedAt time.Time
}
