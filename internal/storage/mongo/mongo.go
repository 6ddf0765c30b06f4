// Package mongo реализует storage.ContentStorage поверх MongoDB.
// mongo.go — подключение, индексы и обёртка над транзакциями;
// categories.go, topics.go, comments.go — операции по коллекциям;
// docs.go — BSON-представление документов и конвертация в доменные модели.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	categoriesCollection = "categories"
	topicsCollection     = "topics"
	commentsCollection   = "comments"
	defaultDBName        = "forum"
)

// Mongo — адаптер MongoDB для контента форума.
type Mongo struct {
	cfg        *config.Config
	client     *mongodriver.Client
	db         *mongodriver.Database
	categories *mongodriver.Collection
	topics     *mongodriver.Collection
	comments   *mongodriver.Collection
}

// New подключается к MongoDB, проверяет соединение, готовит коллекции и индексы.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		cfg:        cfg,
		client:     cli,
		db:         db,
		categories: db.Collection(categoriesCollection),
		topics:     db.Collection(topicsCollection),
		comments:   db.Collection(commentsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close отключает клиента.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping — проверка готовности для /healthz.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes создаёт индексы под сортировки списков:
//   - категории: order + name;
//   - темы раздела и глобальный поиск: pinned, last_comment_at, created_at (desc);
//   - комментарии темы: topic_id + created_at (asc).
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	if _, err := m.categories.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetName("order_name_asc"),
	}); err != nil {
		return fmt.Errorf("mongo ensure indexes (categories): %w", err)
	}

	topicIdx := []mongodriver.IndexModel{
		{
			Keys: bson.D{
				{Key: "category_id", Value: 1},
				{Key: "is_pinned", Value: -1},
				{Key: "last_comment_at", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("category_activity_desc"),
		},
		{
			Keys: bson.D{
				{Key: "is_pinned", Value: -1},
				{Key: "last_comment_at", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("activity_desc"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("author"),
		},
	}

	if _, err := m.topics.Indexes().CreateMany(ctx, topicIdx); err != nil {
		return fmt.Errorf("mongo ensure indexes (topics): %w", err)
	}

	commentIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "topic_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("topic_created_asc"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("author"),
		},
	}

	if _, err := m.comments.Indexes().CreateMany(ctx, commentIdx); err != nil {
		return fmt.Errorf("mongo ensure indexes (comments): %w", err)
	}

	return nil
}

// inTx выполняет fn в транзакции, если они включены конфигом.
// Без транзакций шаги fn применяются по одному, и сбой посередине оставляет частичный результат.
func (m *Mongo) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.cfg.DB.Transactions {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongodriver.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})

	return err
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}

// now — текущее время с точностью MongoDB DateTime (миллисекунды).
func now() time.Time {
	return toMS(time.Now())
}

func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Проверка выполнения контракта.
var _ storage.ContentStorage = (*Mongo)(nil)
