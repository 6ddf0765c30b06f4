// Package access — единая точка проверки прав: владелец-или-модератор и членство в роли.
package access

import (
	"context"

	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/google/uuid"
)

// Actor — аутентифицированный пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// staff — роли со сквозными правами на чужие темы и комментарии.
var staff = []models.Role{models.RoleModerator, models.RoleAdmin}

// HasRole — точное членство роли актора в списке, без учёта владения.
func HasRole(actor Actor, roles ...models.Role) bool {
	for _, r := range roles {
		if actor.Role == r {
			return true
		}
	}

	return false
}

// IsModerator — moderator или admin.
func IsModerator(actor Actor) bool {
	return HasRole(actor, staff...)
}

// CanModify — актор является автором ресурса либо модератором/администратором.
func CanModify(actor Actor, authorID uuid.UUID) bool {
	if actor.ID != uuid.Nil && actor.ID == authorID {
		return true
	}

	return IsModerator(actor)
}

type ctxKey struct{}

// Into кладёт актора в контекст запроса.
func Into(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// From достаёт актора из контекста; ok=false для анонимного запроса.
func From(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
