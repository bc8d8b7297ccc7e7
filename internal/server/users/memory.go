package users

import (
	"context"
	"sort"
	"sync"

	"github.com/studyhub/studyhub/internal/common"
	"github.com/studyhub/studyhub/internal/server/models"
)

// MemoryRepository keeps users in a mutex-guarded map. It is the default
// backend of the development server and the fixture for service tests.
type MemoryRepository struct {
	mu     sync.Mutex
	users  map[int64]models.User
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]models.User), nextID: 1}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u

	out := u
	return &out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return common.ErrorNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u
	return &out, nil
}

func (r *MemoryRepository) findOne(match func(models.User) bool) (*models.User, error) {
	for _, u := range r.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findOne(func(u models.User) bool { return u.Username == username })
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findOne(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findOne(func(u models.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

func (r *MemoryRepository) GetByInviteCode(ctx context.Context, code string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findOne(func(u models.User) bool { return u.InviteCode == code })
}

func (r *MemoryRepository) ListInvitedBy(ctx context.Context, userID int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var invited []*models.User
	for _, u := range r.users {
		if u.InvitedByID != nil && *u.InvitedByID == userID {
			out := u
			invited = append(invited, &out)
		}
	}
	sort.Slice(invited, func(i, j int) bool { return invited[i].ID < invited[j].ID })
	return invited, nil
}

func (r *MemoryRepository) CountInvitedBy(ctx context.Context, userID int64) (int, error) {
	invited, err := r.ListInvitedBy(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(invited), nil
}

func (r *MemoryRepository) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		out := u
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Points != all[j].Points {
			return all[i].Points > all[j].Points
		}
		return all[i].ID < all[j].ID
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

var _ Repository = (*MemoryRepository)(nil)
