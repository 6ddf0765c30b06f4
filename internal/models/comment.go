package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — комментарий к теме (MongoDB).
//   - ParentID не проверяется на существование;
//   - IsDeleted зарезервирован схемой и не выставляется ни одной операцией;
//   - Likes только растёт, без дедупликации по пользователю.
type Comment struct {
	ID        string
	Content   string
	TopicID   string
	AuthorID  uuid.UUID
	ParentID  string
	IsDeleted bool
	EditedAt  *time.Time
	Likes     int64
	CreatedAt time.Time
	UpdatedAt time.Time

	AuthorName string
}
