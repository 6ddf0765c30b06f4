package access

import (
	"context"
	"testing"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCanModify(t *testing.T) {
	t.Parallel()

	author := uuid.New()
	other := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{name: "owner_user", actor: Actor{ID: author, Role: models.RoleUser}, want: true},
		{name: "stranger_user", actor: Actor{ID: other, Role: models.RoleUser}, want: false},
		{name: "stranger_moderator", actor: Actor{ID: other, Role: models.RoleModerator}, want: true},
		{name: "stranger_admin", actor: Actor{ID: other, Role: models.RoleAdmin}, want: true},
		{name: "unknown_role", actor: Actor{ID: other, Role: "guest"}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CanModify(tt.actor, author))
		})
	}
}

// TestCanModify_NilIDsNeverMatch — пустой актор не становится «владельцем» записи без автора.
func TestCanModify_NilIDsNeverMatch(t *testing.T) {
	t.Parallel()
	require.False(t, CanModify(Actor{Role: models.RoleUser}, uuid.Nil))
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	admin := Actor{ID: uuid.New(), Role: models.RoleAdmin}
	mod := Actor{ID: uuid.New(), Role: models.RoleModerator}
	user := Actor{ID: uuid.New(), Role: models.RoleUser}

	require.True(t, HasRole(admin, models.RoleAdmin))
	require.False(t, HasRole(mod, models.RoleAdmin))
	require.True(t, HasRole(mod, models.RoleAdmin, models.RoleModerator))
	require.False(t, HasRole(user, models.RoleAdmin, models.RoleModerator))
	require.False(t, HasRole(user))

	require.True(t, IsModerator(admin))
	require.True(t, IsModerator(mod))
	require.False(t, IsModerator(user))
}

func TestIntoFrom(t *testing.T) {
	t.Parallel()

	_, ok := From(context.Background())
	require.False(t, ok)

	a := Actor{ID: uuid.New(), Role: models.RoleModerator}
	got, ok := From(Into(context.Background(), a))
	require.True(t, ok)
	require.Equal(t, a, got)
}
