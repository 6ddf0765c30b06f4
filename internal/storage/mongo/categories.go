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

// ListCategories возвращает все категории: order ASC, name ASC. Без пагинации.
func (m *Mongo) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage/mongo/ListCategories"

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})

	cur, err := m.categories.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}

	return out, nil
}

// CategoryByID возвращает категорию. Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "storage/mongo/CategoryByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc categoryDoc
	if err := m.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// CategoriesByIDs возвращает категории по набору ID; битые и отсутствующие ID пропускаются.
func (m *Mongo) CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	const op = "storage/mongo/CategoriesByIDs"

	oids := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err == nil {
			oids = append(oids, oid)
		}
	}

	if len(oids) == 0 {
		return []models.Category{}, nil
	}

	cur, err := m.categories.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}

	return out, nil
}

// CreateCategory вставляет категорию; ID генерирует драйвер.
func (m *Mongo) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	const op = "storage/mongo/CreateCategory"

	ts := now()
	doc := categoryDoc{
		Name:        category.Name,
		Description: category.Description,
		Order:       category.Order,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	res, err := m.categories.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := doc.model()

	return &out, nil
}

// UpdateCategory применяет только заданные поля и возвращает обновлённую запись.
func (m *Mongo) UpdateCategory(ctx context.Context, id string, update storage.CategoryUpdate) (*models.Category, error) {
	const op = "storage/mongo/UpdateCategory"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	set := bson.D{{Key: "updated_at", Value: now()}}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}

	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}

	if update.Order != nil {
		set = append(set, bson.E{Key: "order", Value: *update.Order})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc categoryDoc
	err = m.categories.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// DeleteCategory каскадно удаляет: комментарии тем категории -> темы -> категорию.
func (m *Mongo) DeleteCategory(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteCategory"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	err = m.inTx(ctx, func(ctx context.Context) error {
		if err := m.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				return storage.ErrNotFound
			}

			return fmt.Errorf("find category: %w", err)
		}

		byCategory := bson.D{{Key: "category_id", Value: oid}}

		topicIDs, err := m.topics.Distinct(ctx, "_id", byCategory)
		if err != nil {
			return fmt.Errorf("collect topics: %w", err)
		}

		if len(topicIDs) > 0 {
			if _, err := m.comments.DeleteMany(ctx, bson.D{{Key: "topic_id", Value: bson.D{{Key: "$in", Value: topicIDs}}}}); err != nil {
				return fmt.Errorf("delete comments: %w", err)
			}
		}

		if _, err := m.topics.DeleteMany(ctx, byCategory); err != nil {
			return fmt.Errorf("delete topics: %w", err)
		}

		if _, err := m.categories.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
