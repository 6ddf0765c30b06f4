package service

// Сценарии поверх настоящего MongoDB: проверяем итоговое состояние
// счётчиков и каскадов, а не только набор вызовов storage.
// Запускаются только с GO_TEST_INTEGRATION=1.

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage/mongo"
	"github.com/Vladiumnika/forumblackdynasty/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newStoreSvc поднимает MongoDB в контейнере и сервис с реальным ContentStorage.
// Учётные записи остаются моком: имена авторов этим тестам не важны.
func newStoreSvc(t *testing.T) *Service {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration test: set GO_TEST_INTEGRATION=1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoC.Terminate(context.Background()) })

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	cfg := testCfg()
	cfg.DB = config.DBConfig{URL: fmt.Sprintf("mongodb://%s:%s/forum_svc_test", host, port.Port())}

	content, err := mongo.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = content.Close(context.Background()) })

	identity := mocks.NewMockIdentityStorage(gomock.NewController(t))
	identity.EXPECT().UsernamesByIDs(gomock.Any(), gomock.Any()).Return(map[uuid.UUID]string{}, nil).AnyTimes()

	svc := New(cfg, Deps{Content: content, Identity: identity})
	svc.now = func() time.Time { return fixedNow }

	return svc
}

func TestContentStore_LockModerationAndCascades(t *testing.T) {
	svc := newStoreSvc(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := adminActor()
	moderator := moderatorActor()
	author := userActor()
	reader := userActor()

	cat, err := svc.CreateCategory(ctx, admin, CreateCategoryInput{Name: "General"})
	require.NoError(t, err)

	topic, err := svc.CreateTopic(ctx, author, CreateTopicInput{Title: "Hello", Content: "first", CategoryID: cat.ID})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, reader, CreateCommentInput{TopicID: topic.ID, Content: "hi"})
	require.NoError(t, err)

	t.Run("locked topic rejects comments and keeps counter", func(t *testing.T) {
		_, err := svc.UpdateTopic(ctx, moderator, topic.ID, UpdateTopicInput{IsLocked: ptr(true)})
		require.NoError(t, err)

		_, err = svc.CreateComment(ctx, reader, CreateCommentInput{TopicID: topic.ID, Content: "late"})
		require.ErrorIs(t, err, ErrForbidden)

		got, err := svc.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		require.True(t, got.IsLocked)
		require.EqualValues(t, 1, got.RepliesCount)
	})

	t.Run("repeated likes by one user are counted", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := svc.LikeComment(ctx, comment.ID)
			require.NoError(t, err)
		}

		page, err := svc.ListComments(ctx, ListCommentsInput{TopicID: topic.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.EqualValues(t, 3, page.Items[0].Likes)
	})

	t.Run("moderator delete removes topic comments", func(t *testing.T) {
		require.NoError(t, svc.DeleteTopic(ctx, moderator, topic.ID))

		page, err := svc.ListComments(ctx, ListCommentsInput{TopicID: topic.ID})
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.Zero(t, page.Total)

		_, err = svc.GetTopic(ctx, topic.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("category delete empties its topic list", func(t *testing.T) {
		other, err := svc.CreateTopic(ctx, author, CreateTopicInput{Title: "Second", Content: "body", CategoryID: cat.ID})
		require.NoError(t, err)
		_, err = svc.CreateComment(ctx, reader, CreateCommentInput{TopicID: other.ID, Content: "reply"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCategory(ctx, admin, cat.ID))

		topics, err := svc.ListTopics(ctx, ListTopicsInput{CategoryID: cat.ID})
		require.NoError(t, err)
		require.Empty(t, topics.Items)
		require.Zero(t, topics.Total)

		comments, err := svc.ListComments(ctx, ListCommentsInput{TopicID: other.ID})
		require.NoError(t, err)
		require.Empty(t, comments.Items)
	})

	t.Run("huge page is an empty page, not a store error", func(t *testing.T) {
		found, err := svc.GlobalSearch(ctx, SearchInput{Page: 1 << 62, PageSize: 100})
		require.NoError(t, err)
		require.Empty(t, found.Items)
	})
}
