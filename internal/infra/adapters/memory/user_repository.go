package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/qrave1/MeetPlanner/internal/domain/input"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

// UserRepository - пользователи в памяти для STORAGE=memory
type UserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

func NewUserRepository(users ...models.User) *UserRepository {
	r := &UserRepository{users: make(map[string]models.User, len(users))}

	for _, u := range users {
		r.users[u.UserID] = u
	}

	return r
}

func (r *UserRepository) ListUsers(ctx context.Context, in input.UserListInput) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if u.IsAdmin {
			continue
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].FirstName != users[j].FirstName {
			return users[i].FirstName < users[j].FirstName
		}
		return users[i].UserID < users[j].UserID
	})

	if in.Skip >= len(users) {
		return nil, nil
	}

	users = users[in.Skip:]
	if in.Limit > 0 && len(users) > in.Limit {
		users = users[:in.Limit]
	}

	return users, nil
}
