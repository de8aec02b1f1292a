package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/contactbook/internal/domain/user"
)

// UsersRepo is a map-backed stand-in for the postgres repo, used by tests
// that exercise handlers without a database. It enforces the same email
// uniqueness and returns the same sentinel errors.
type UsersRepo struct {
	mu       sync.RWMutex
	nextID   int64
	items    map[int64]user.User
	contacts *ContactsRepo // for profile contact counts; may be nil
}

func NewUsersRepo(contacts *ContactsRepo) *UsersRepo {
	return &UsersRepo{
		nextID:   1,
		items:    make(map[int64]user.User),
		contacts: contacts,
	}
}

func (r *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if u.Email == req.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           r.nextID,
		Name:         req.Name,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nextID++
	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, email, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.items {
		if u.Email == email {
			u.PasswordHash = newHash
			u.UpdatedAt = time.Now().UTC()
			r.items[id] = u
			return nil
		}
	}

	return user.ErrNotFound
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, req user.UpdateProfileRequest) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	for otherID, other := range r.items {
		if otherID != id && other.Email == req.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	u.Name = req.Name
	u.Gender = req.Gender
	u.Phone = req.Phone
	u.Email = req.Email
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u

	return u, nil
}

func (r *UsersRepo) Profile(ctx context.Context, id int64) (user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.Profile{}, user.ErrNotFound
	}

	count := 0
	if r.contacts != nil {
		owned, _ := r.contacts.ListByUser(ctx, id)
		count = len(owned)
	}

	return user.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Gender:    u.Gender,
		Phone:     u.Phone,
		Email:     u.Email,
		Contacts:  count,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}
