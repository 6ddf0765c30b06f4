package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/Vladiumnika/forumblackdynasty/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты поднимают PostgreSQL (postgres:16-alpine) и применяют
// встроенные миграции через Storage.Migrate.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -count=1

// startPostgres поднимает временный PostgreSQL и возвращает хранилище и функцию очистки.
// Без GO_TEST_INTEGRATION тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	applied, err := st.Migrate(ctx, migrations.FS)
	require.NoError(t, err)
	require.Len(t, applied, 3)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func newUser(email string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:6],
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"2_b.up.sql":   {Data: []byte("B")},
		"10_c.up.sql":  {Data: []byte("C")},
		"1_a.up.sql":   {Data: []byte("A")},
		"1_a.down.sql": {Data: []byte("drop")},
	}

	list, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []int{1, 2, 10}, []int{list[0].version, list[1].version, list[2].version})
	require.Equal(t, "A", list[0].sql)

	_, err = loadMigrations(fstest.MapFS{"x_a.up.sql": {Data: []byte("A")}})
	require.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{"1_a.up.sql": {}, "1_b.up.sql": {}})
	require.Error(t, err)

	// Встроенный набор миграций должен разбираться без ошибок.
	embedded, err := loadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, embedded)
}

func TestLikeEscaper(t *testing.T) {
	t.Parallel()

	require.Equal(t, `50\%\_off\\`, likeEscaper.Replace(`50%_off\`))
	require.Equal(t, "plain", likeEscaper.Replace("plain"))
}

func TestIntegration_Users(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()

	u := newUser("Alice@Example.com")
	u.Username = "alice"
	exp := time.Now().Add(time.Hour).UTC()
	u.EmailVerificationTokenHash = "vhash"
	u.EmailVerificationExpiresAt = &exp
	require.NoError(t, st.SaveUser(ctx, u))

	t.Run("email is unique case-insensitively", func(t *testing.T) {
		err := st.SaveUser(ctx, newUser("alice@example.COM"))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		got, err := st.UserByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, models.RoleUser, got.Role)
		require.False(t, got.EmailVerified)

		_, err = st.UserByID(ctx, uuid.New())
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("verification token respects expiry", func(t *testing.T) {
		got, err := st.UserByVerificationToken(ctx, "vhash", time.Now())
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		_, err = st.UserByVerificationToken(ctx, "vhash", time.Now().Add(2*time.Hour))
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, st.MarkEmailVerified(ctx, u.ID))

		_, err = st.UserByVerificationToken(ctx, "vhash", time.Now())
		require.ErrorIs(t, err, storage.ErrNotFound)

		got, err = st.UserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.EmailVerified)
		require.Empty(t, got.EmailVerificationTokenHash)
		require.Nil(t, got.EmailVerificationExpiresAt)
	})

	t.Run("reset token and password update", func(t *testing.T) {
		require.NoError(t, st.SetResetToken(ctx, u.ID, "rhash", time.Now().Add(time.Hour)))

		got, err := st.UserByResetToken(ctx, "rhash", time.Now())
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		require.NoError(t, st.UpdatePassword(ctx, u.ID, "newhash"))

		_, err = st.UserByResetToken(ctx, "rhash", time.Now())
		require.ErrorIs(t, err, storage.ErrNotFound)

		got, err = st.UserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "newhash", got.PasswordHash)

		require.ErrorIs(t, st.UpdatePassword(ctx, uuid.New(), "x"), storage.ErrNotFound)
	})

	t.Run("profile partial update", func(t *testing.T) {
		bio := "hello"
		got, err := st.UpdateProfile(ctx, u.ID, storage.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		require.Equal(t, "hello", got.Bio)
		require.Empty(t, got.AvatarURL)

		got, err = st.ConfirmAvatar(ctx, u.ID, "avatars/k.png", "http://cdn/avatars/k.png")
		require.NoError(t, err)
		require.Equal(t, "avatars/k.png", got.AvatarKey)
		require.Equal(t, "hello", got.Bio)

		require.NoError(t, st.TouchLastSeen(ctx, u.ID, time.Now()))
		got, err = st.UserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastSeenAt)
	})

	t.Run("list users, set role, usernames", func(t *testing.T) {
		bob := newUser("bob@example.com")
		bob.Username = "bob_100%"
		require.NoError(t, st.SaveUser(ctx, bob))

		list, err := st.ListUsers(ctx, "ALI", 20)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, u.ID, list[0].ID)

		list, err = st.ListUsers(ctx, "100%", 20)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, bob.ID, list[0].ID)

		all, err := st.ListUsers(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, all, 1)

		sum, err := st.SetRole(ctx, bob.ID, models.RoleModerator)
		require.NoError(t, err)
		require.Equal(t, models.RoleModerator, sum.Role)

		_, err = st.SetRole(ctx, uuid.New(), models.RoleAdmin)
		require.ErrorIs(t, err, storage.ErrNotFound)

		names, err := st.UsernamesByIDs(ctx, []uuid.UUID{u.ID, bob.ID, uuid.New()})
		require.NoError(t, err)
		require.Equal(t, map[uuid.UUID]string{u.ID: "alice", bob.ID: "bob_100%"}, names)
	})
}

func TestIntegration_Memberships(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	u := newUser("m@example.com")
	require.NoError(t, st.SaveUser(ctx, u))

	topic := "64b7f0c2a1b2c3d4e5f60718"

	require.NoError(t, st.AddSubscription(ctx, u.ID, topic))
	require.NoError(t, st.AddSubscription(ctx, u.ID, topic))
	require.NoError(t, st.AddBookmark(ctx, u.ID, topic))

	subs, marks, err := st.Memberships(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{topic}, subs)
	require.Equal(t, []string{topic}, marks)

	require.NoError(t, st.RemoveSubscription(ctx, u.ID, topic))
	require.NoError(t, st.RemoveSubscription(ctx, u.ID, topic))
	require.NoError(t, st.RemoveBookmark(ctx, u.ID, topic))

	subs, marks, err = st.Memberships(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, subs)
	require.Empty(t, marks)

	require.ErrorIs(t, st.AddBookmark(ctx, uuid.New(), topic), storage.ErrNotFound)
}

func TestIntegration_RefreshSessions(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	u := newUser("r@example.com")
	require.NoError(t, st.SaveUser(ctx, u))

	now := time.Now().UTC()
	mk := func(hash string, exp time.Time) *models.RefreshSession {
		return &models.RefreshSession{TokenHash: hash, UserID: u.ID, CreatedAt: now, ExpiresAt: exp}
	}

	require.NoError(t, st.SaveRefreshSession(ctx, mk("h1", now.Add(time.Hour))))
	require.NoError(t, st.SaveRefreshSession(ctx, mk("h2", now.Add(time.Hour))))
	require.NoError(t, st.SaveRefreshSession(ctx, mk("old", now.Add(-time.Hour))))
	require.ErrorIs(t, st.SaveRefreshSession(ctx, mk("h1", now)), storage.ErrAlreadyExists)

	got, err := st.RefreshSessionByHash(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.Revoked)

	ok, err := st.RevokeRefreshSession(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.RevokeRefreshSession(ctx, "h1")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = st.RevokeRefreshSession(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	hashes, err := st.RevokeUserSessions(ctx, u.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"h2", "old"}, hashes)

	require.NoError(t, st.DeleteExpiredSessions(ctx, now))
	_, err = st.RefreshSessionByHash(ctx, "old")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Повторный прогон миграций ничего не применяет.
	applied, err := st.Migrate(ctx, migrations.FS)
	require.NoError(t, err)
	require.Empty(t, applied)
}
