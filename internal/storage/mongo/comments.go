package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListComments возвращает комментарии темы в хронологическом порядке.
// Дерево ответов строит клиент по parent_id.
func (m *Mongo) ListComments(ctx context.Context, topicID string, params models.ListParams) ([]models.Comment, error) {
	const op = "storage/mongo/ListComments"

	tid, err := primitive.ObjectIDFromHex(strings.TrimSpace(topicID))
	if err != nil {
		return []models.Comment{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(params.Skip()).
		SetLimit(int64(params.PageSize))

	cur, err := m.comments.Find(ctx, bson.D{{Key: "topic_id", Value: tid}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}

	return out, nil
}

// CountComments — число комментариев темы.
func (m *Mongo) CountComments(ctx context.Context, topicID string) (int64, error) {
	const op = "storage/mongo/CountComments"

	tid, err := primitive.ObjectIDFromHex(strings.TrimSpace(topicID))
	if err != nil {
		return 0, nil
	}

	n, err := m.comments.CountDocuments(ctx, bson.D{{Key: "topic_id", Value: tid}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// CommentByID — ErrNotFound при отсутствии или битом ID.
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// CreateComment вставляет комментарий и обновляет счётчик и активность темы.
// Существование родителя не проверяется: сохраняется любой корректный ObjectID.
func (m *Mongo) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	tid, err := primitive.ObjectIDFromHex(strings.TrimSpace(comment.TopicID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}

	var parent *primitive.ObjectID
	if pid := strings.TrimSpace(comment.ParentID); pid != "" {
		p, err := primitive.ObjectIDFromHex(pid)
		if err != nil {
			return nil, fmt.Errorf("%s: parent: %w", op, storage.ErrInvalidID)
		}

		parent = &p
	}

	ts := now()
	doc := commentDoc{
		Content:   comment.Content,
		TopicID:   tid,
		AuthorID:  comment.AuthorID.String(),
		ParentID:  parent,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	err = m.inTx(ctx, func(ctx context.Context) error {
		res, err := m.comments.InsertOne(ctx, doc)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return fmt.Errorf("inserted id type")
		}
		doc.ID = oid

		_, err = m.topics.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: tid}},
			bson.D{
				{Key: "$inc", Value: bson.D{{Key: "replies_count", Value: 1}}},
				{Key: "$set", Value: bson.D{
					{Key: "last_comment_at", Value: ts},
					{Key: "last_comment_by", Value: doc.AuthorID},
					{Key: "updated_at", Value: ts},
				}},
			},
		)
		if err != nil {
			return fmt.Errorf("update topic: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// UpdateComment меняет текст и всегда выставляет edited_at.
func (m *Mongo) UpdateComment(ctx context.Context, id string, update storage.CommentUpdate) (*models.Comment, error) {
	const op = "storage/mongo/UpdateComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	editedAt := toMS(update.EditedAt)
	if update.EditedAt.IsZero() {
		editedAt = now()
	}

	set := bson.D{
		{Key: "edited_at", Value: editedAt},
		{Key: "updated_at", Value: editedAt},
	}
	if update.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *update.Content})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc commentDoc
	err = m.comments.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// DeleteComment удаляет комментарий и уменьшает replies_count темы.
// Ответы на удалённый комментарий остаются со ссылкой на несуществующего родителя.
func (m *Mongo) DeleteComment(ctx context.Context, id, topicID string) error {
	const op = "storage/mongo/DeleteComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	tid, err := primitive.ObjectIDFromHex(strings.TrimSpace(topicID))
	if err != nil {
		return fmt.Errorf("%s: topic: %w", op, storage.ErrInvalidID)
	}

	err = m.inTx(ctx, func(ctx context.Context) error {
		res, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}

		if res.DeletedCount == 0 {
			return storage.ErrNotFound
		}

		_, err = m.topics.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: tid}},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "replies_count", Value: -1}}}},
		)
		if err != nil {
			return fmt.Errorf("update topic: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LikeComment увеличивает likes на единицу и возвращает комментарий с новым значением.
func (m *Mongo) LikeComment(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/LikeComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc commentDoc
	err = m.comments.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "likes", Value: 1}}}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}
