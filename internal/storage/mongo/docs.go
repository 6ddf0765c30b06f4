package mongo

import (
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categoryDoc — документ коллекции categories.
type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Order       int                `bson:"order"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// topicDoc — документ коллекции topics.
// UUID пользователей хранятся строками: так их проще читать в mongosh и фильтровать.
type topicDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	CategoryID    primitive.ObjectID `bson:"category_id"`
	AuthorID      string             `bson:"author_id"`
	Views         int64              `bson:"views"`
	RepliesCount  int64              `bson:"replies_count"`
	LastCommentAt *time.Time         `bson:"last_comment_at,omitempty"`
	LastCommentBy string             `bson:"last_comment_by,omitempty"`
	IsLocked      bool               `bson:"is_locked"`
	IsPinned      bool               `bson:"is_pinned"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// commentDoc — документ коллекции comments. parent_id = null для корневых.
type commentDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Content   string              `bson:"content"`
	TopicID   primitive.ObjectID  `bson:"topic_id"`
	AuthorID  string              `bson:"author_id"`
	ParentID  *primitive.ObjectID `bson:"parent_id"`
	IsDeleted bool                `bson:"is_deleted"`
	EditedAt  *time.Time          `bson:"edited_at,omitempty"`
	Likes     int64               `bson:"likes"`
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

func (d categoryDoc) model() models.Category {
	return models.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Order:       d.Order,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (d topicDoc) model() models.Topic {
	t := models.Topic{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Content:      d.Content,
		CategoryID:   d.CategoryID.Hex(),
		AuthorID:     parseUUID(d.AuthorID),
		Views:        d.Views,
		RepliesCount: d.RepliesCount,
		IsLocked:     d.IsLocked,
		IsPinned:     d.IsPinned,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}

	if d.LastCommentAt != nil {
		at := d.LastCommentAt.UTC()
		t.LastCommentAt = &at
	}

	if d.LastCommentBy != "" {
		by := parseUUID(d.LastCommentBy)
		t.LastCommentBy = &by
	}

	return t
}

func (d commentDoc) model() models.Comment {
	c := models.Comment{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		TopicID:   d.TopicID.Hex(),
		AuthorID:  parseUUID(d.AuthorID),
		IsDeleted: d.IsDeleted,
		Likes:     d.Likes,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}

	if d.ParentID != nil {
		c.ParentID = d.ParentID.Hex()
	}

	if d.EditedAt != nil {
		at := d.EditedAt.UTC()
		c.EditedAt = &at
	}

	return c
}

// parseUUID не падает на мусоре: битый author_id превращается в uuid.Nil.
func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}

	return id
}
