package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair — пара access/refresh, выдаваемая при входе и ротации.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// RefreshSession — серверная запись refresh-токена.
// Хранится только SHA-256 хэш; сам токен знает лишь клиент.
type RefreshSession struct {
	TokenHash string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// AccessClaims — содержимое проверенного access-токена.
type AccessClaims struct {
	UserID uuid.UUID
	Role   Role
}
