package models

import (
	"time"

	"github.com/google/uuid"
)

// Topic — тема обсуждения (MongoDB).
//   - Views растёт атомарно при каждом чтении по ID;
//   - RepliesCount поддерживается инкрементом/декрементом и может уйти в минус;
//   - LastCommentAt/LastCommentBy обновляются при создании комментария и не откатываются.
type Topic struct {
	ID            string
	Title         string
	Content       string
	CategoryID    string
	AuthorID      uuid.UUID
	Views         int64
	RepliesCount  int64
	LastCommentAt *time.Time
	LastCommentBy *uuid.UUID
	IsLocked      bool
	IsPinned      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Заполняются сервисом при выдаче.
	AuthorName   string
	CategoryName string
}
