package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// errEmptyResult — фильтр заведомо ничего не находит (битый ID категории).
var errEmptyResult = errors.New("empty result")

// topicFilter строит запрос по разделу и подстроке в title/content без учёта регистра.
// Пользовательский ввод экранируется и матчится как литерал.
func topicFilter(f models.TopicFilter) (bson.D, error) {
	filter := bson.D{}

	if cid := strings.TrimSpace(f.CategoryID); cid != "" {
		oid, err := primitive.ObjectIDFromHex(cid)
		if err != nil {
			return nil, errEmptyResult
		}

		filter = append(filter, bson.E{Key: "category_id", Value: oid})
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "content", Value: re}},
		}})
	}

	return filter, nil
}

// topicSort — закреплённые сверху, затем по последней активности и дате создания.
// Темы без комментариев (last_comment_at отсутствует) идут после тем с активностью.
var topicSort = bson.D{
	{Key: "is_pinned", Value: -1},
	{Key: "last_comment_at", Value: -1},
	{Key: "created_at", Value: -1},
	{Key: "_id", Value: -1},
}

// ListTopics возвращает страницу тем по фильтру.
func (m *Mongo) ListTopics(ctx context.Context, f models.TopicFilter, params models.ListParams) ([]models.Topic, error) {
	const op = "storage/mongo/ListTopics"

	filter, err := topicFilter(f)
	if err != nil {
		if errors.Is(err, errEmptyResult) {
			return []models.Topic{}, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	opts := options.Find().
		SetSort(topicSort).
		SetSkip(params.Skip()).
		SetLimit(int64(params.PageSize))

	cur, err := m.topics.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []topicDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	out := make([]models.Topic, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}

	return out, nil
}

// CountTopics — общее число тем по фильтру ListTopics.
func (m *Mongo) CountTopics(ctx context.Context, f models.TopicFilter) (int64, error) {
	const op = "storage/mongo/CountTopics"

	filter, err := topicFilter(f)
	if err != nil {
		if errors.Is(err, errEmptyResult) {
			return 0, nil
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := m.topics.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// TopicByID читает тему без изменения счётчика просмотров.
func (m *Mongo) TopicByID(ctx context.Context, id string) (*models.Topic, error) {
	const op = "storage/mongo/TopicByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc topicDoc
	if err := m.topics.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// ViewTopic увеличивает views одним $inc и возвращает тему уже с новым значением.
func (m *Mongo) ViewTopic(ctx context.Context, id string) (*models.Topic, error) {
	const op = "storage/mongo/ViewTopic"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc topicDoc
	err = m.topics.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
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

// CreateTopic вставляет тему со счётчиками по нулям.
// Существование категории проверяет сервис; здесь только формат ссылки.
func (m *Mongo) CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	const op = "storage/mongo/CreateTopic"

	cid, err := primitive.ObjectIDFromHex(strings.TrimSpace(topic.CategoryID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}

	ts := now()
	doc := topicDoc{
		Title:      topic.Title,
		Content:    topic.Content,
		CategoryID: cid,
		AuthorID:   topic.AuthorID.String(),
		IsLocked:   topic.IsLocked,
		IsPinned:   topic.IsPinned,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	res, err := m.topics.InsertOne(ctx, doc)
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

// UpdateTopic применяет заданные поля. Счётчики и автор не меняются.
func (m *Mongo) UpdateTopic(ctx context.Context, id string, update storage.TopicUpdate) (*models.Topic, error) {
	const op = "storage/mongo/UpdateTopic"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	set := bson.D{{Key: "updated_at", Value: now()}}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}

	if update.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *update.Content})
	}

	if update.IsLocked != nil {
		set = append(set, bson.E{Key: "is_locked", Value: *update.IsLocked})
	}

	if update.IsPinned != nil {
		set = append(set, bson.E{Key: "is_pinned", Value: *update.IsPinned})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc topicDoc
	err = m.topics.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.model()
	return &out, nil
}

// DeleteTopic удаляет все комментарии темы, затем тему.
func (m *Mongo) DeleteTopic(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteTopic"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	err = m.inTx(ctx, func(ctx context.Context) error {
		if err := m.topics.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				return storage.ErrNotFound
			}

			return fmt.Errorf("find topic: %w", err)
		}

		if _, err := m.comments.DeleteMany(ctx, bson.D{{Key: "topic_id", Value: oid}}); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		if _, err := m.topics.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
