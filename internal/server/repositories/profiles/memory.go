package profiles

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps profiles in process memory. The table, insertion
// order, username index and user index share one RWMutex.
//
// Create checks the user through the identity store's guard, which holds the
// identity lock while this store's lock is taken. Nothing here ever calls
// into the identity store while holding this store's lock.
type MemoryRepository struct {
	users UserGuard

	mu         sync.RWMutex
	byID       map[string]*models.Profile
	order      []string
	byUsername map[string]string
	byUser     map[string]string

	now   func() time.Time
	newID func() string
}

func NewMemoryRepository(users UserGuard) *MemoryRepository {
	return &MemoryRepository{
		users:      users,
		byID:       make(map[string]*models.Profile),
		byUsername: make(map[string]string),
		byUser:     make(map[string]string),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var created *models.Profile

	err := r.users.WithUser(ctx, profile.UserID, func() error {
		r.mu.Lock()
		defer r.mu.Unlock()

		if _, ok := r.byUser[profile.UserID]; ok {
			return fmt.Errorf("%w: user %s already has a profile", common.ErrorConflict, profile.UserID)
		}
		if err := r.checkUsername(profile.Username, ""); err != nil {
			return err
		}

		rec := profile.Clone()
		rec.ID = r.newID()
		rec.CreatedAt = r.now()
		rec.UpdatedAt = rec.CreatedAt

		r.byID[rec.ID] = rec
		r.order = append(r.order, rec.ID)
		r.byUsername[usernameKey(rec.Username)] = rec.ID
		r.byUser[rec.UserID] = rec.ID

		created = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, fmt.Errorf("%w: profile for user %s", common.ErrorNotFound, userID)
	}
	return r.mustGet(id).Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Profile, 0, len(r.order))
	for _, id := range r.order {
		if p := r.mustGet(id); filter.Match(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(p *models.Profile) error) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
	}

	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if next.UserID != cur.UserID {
		return nil, fmt.Errorf("%w: user_id of a profile cannot change", common.ErrorValidation)
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt

	if err := r.checkUsername(next.Username, id); err != nil {
		return nil, err
	}

	oldKey := usernameKey(cur.Username)
	if r.byUsername[oldKey] != id {
		panic(fmt.Sprintf("profiles: username index for %s does not point at profile %s", cur.Username, id))
	}
	delete(r.byUsername, oldKey)

	next.UpdatedAt = r.now()
	r.byID[id] = next
	r.byUsername[usernameKey(next.Username)] = id

	return next.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
	}
	r.remove(id)
	return nil
}

// DeleteByUserID is the cascade hook for user deletion. It is registered on
// the identity store and runs under the identity store's write lock.
func (r *MemoryRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byUser[userID]; ok {
		r.remove(id)
	}
	return nil
}

// remove drops a profile and its index entries. Callers hold the write lock.
func (r *MemoryRepository) remove(id string) {
	p := r.mustGet(id)

	uk := usernameKey(p.Username)
	if r.byUsername[uk] != id || r.byUser[p.UserID] != id {
		panic(fmt.Sprintf("profiles: indexes out of sync for profile %s", id))
	}
	delete(r.byUsername, uk)
	delete(r.byUser, p.UserID)
	delete(r.byID, id)

	i := slices.Index(r.order, id)
	if i < 0 {
		panic(fmt.Sprintf("profiles: profile %s missing from insertion order", id))
	}
	r.order = slices.Delete(r.order, i, i+1)
}

func (r *MemoryRepository) mustGet(id string) *models.Profile {
	p, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("profiles: index references missing profile %s", id))
	}
	return p
}

func (r *MemoryRepository) checkUsername(username, self string) error {
	if owner, ok := r.byUsername[usernameKey(username)]; ok && owner != self {
		return fmt.Errorf("%w: username %s already taken", common.ErrorConflict, username)
	}
	return nil
}

func usernameKey(username string) string {
	return strings.ToLower(username)
}
