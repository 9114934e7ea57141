package users

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

// DeleteHook runs inside Delete while the user store's write lock is held,
// before the user is removed. Hooks run in registration order and the first
// error aborts the delete. Work done by earlier hooks is not rolled back, so
// a hook must be idempotent: retrying the delete runs it again.
type DeleteHook func(ctx context.Context, userID string) error

// MemoryRepository keeps users in process memory. The primary table, the
// insertion order and both uniqueness indexes are guarded by one RWMutex and
// always change together.
//
// Lock order: this store's lock is taken before any dependent store's lock.
// Delete hooks and WithUser callbacks run under this lock and may lock the
// profile store, never the other way round.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	order   []string
	byEmail map[string]string
	byPhone map[string]string
	hooks   []DeleteHook

	now   func() time.Time
	newID func() string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// OnDelete registers a hook run for every deleted user.
func (r *MemoryRepository) OnDelete(h DeleteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// WithUser runs fn while holding the read lock, so the user cannot be deleted
// until fn returns. It fails with common.ErrorNotFound if the user is absent.
func (r *MemoryRepository) WithUser(ctx context.Context, id string, fn func() error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
	}
	return fn()
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(user, ""); err != nil {
		return nil, err
	}

	rec := user.Clone()
	rec.ID = r.newID()
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt

	r.byID[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	r.byEmail[emailKey(rec.Email)] = rec.ID
	r.byPhone[rec.Phone] = rec.ID

	return rec.Clone(), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.order))
	for _, id := range r.order {
		u, ok := r.byID[id]
		if !ok {
			panic(fmt.Sprintf("users: order references missing user %s", id))
		}
		if filter.Match(u) {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
	}

	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt

	if err := r.checkUnique(next, id); err != nil {
		return nil, err
	}

	r.unindex(cur)
	next.UpdatedAt = r.now()
	r.byID[id] = next
	r.byEmail[emailKey(next.Email)] = id
	r.byPhone[next.Phone] = id

	return next.Clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
	}

	for _, h := range r.hooks {
		if err := h(ctx, id); err != nil {
			return fmt.Errorf("cascade delete of user %s: %w", id, err)
		}
	}

	r.unindex(cur)
	delete(r.byID, id)
	i := slices.Index(r.order, id)
	if i < 0 {
		panic(fmt.Sprintf("users: user %s missing from insertion order", id))
	}
	r.order = slices.Delete(r.order, i, i+1)

	return nil
}

// checkUnique reports a conflict if u's email or phone belongs to a user
// other than self. Callers hold the write lock.
func (r *MemoryRepository) checkUnique(u *models.User, self string) error {
	if owner, ok := r.byEmail[emailKey(u.Email)]; ok && owner != self {
		return fmt.Errorf("%w: email %s already in use", common.ErrorConflict, u.Email)
	}
	if owner, ok := r.byPhone[u.Phone]; ok && owner != self {
		return fmt.Errorf("%w: phone %s already in use", common.ErrorConflict, u.Phone)
	}
	return nil
}

// unindex drops u's index entries. A mismatch means the indexes drifted from
// the table, which is a bug rather than a caller error.
func (r *MemoryRepository) unindex(u *models.User) {
	ek := emailKey(u.Email)
	if r.byEmail[ek] != u.ID {
		panic(fmt.Sprintf("users: email index for %s does not point at user %s", u.Email, u.ID))
	}
	if r.byPhone[u.Phone] != u.ID {
		panic(fmt.Sprintf("users: phone index for %s does not point at user %s", u.Phone, u.ID))
	}
	delete(r.byEmail, ek)
	delete(r.byPhone, u.Phone)
}

func emailKey(email string) string {
	return strings.ToLower(email)
}
