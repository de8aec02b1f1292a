package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/contactbook/internal/domain/contact"
)

type ContactsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]contact.Contact
}

func NewContactsRepo() *ContactsRepo {
	return &ContactsRepo{
		nextID: 1,
		items:  make(map[int64]contact.Contact),
	}
}

func (r *ContactsRepo) Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		if c.UserID == req.UserID && c.ContactPhone == req.ContactPhone {
			return contact.Contact{}, contact.ErrDuplicatePhone
		}
	}

	now := time.Now().UTC()
	c := contact.Contact{
		ID:              r.nextID,
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		ContactAddress:  req.ContactAddress,
		ContactGender:   req.ContactGender,
		ContactFavorite: req.ContactFavorite,
		UserID:          req.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.nextID++
	r.items[c.ID] = c

	return c, nil
}

func (r *ContactsRepo) ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contact.Contact, 0)

	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ContactName != out[j].ContactName {
			return out[i].ContactName < out[j].ContactName
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *ContactsRepo) GetByPhoneAndUser(ctx context.Context, phone string, userID int64) (contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.UserID == userID && c.ContactPhone == phone {
			return c, nil
		}
	}

	return contact.Contact{}, contact.ErrNotFound
}

func (r *ContactsRepo) GetByID(ctx context.Context, id, userID int64) (contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok || c.UserID != userID {
		return contact.Contact{}, contact.ErrNotFound
	}

	return c, nil
}

func (r *ContactsRepo) Update(ctx context.Context, id, userID int64, req contact.UpdateContactRequest) (contact.Contact, error) {
	if !req.HasChanges() {
		return contact.Contact{}, fmt.Errorf("no fields to update")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok || c.UserID != userID {
		return contact.Contact{}, contact.ErrNotFound
	}

	if req.ContactPhone != nil {
		for otherID, other := range r.items {
			if otherID != id && other.UserID == userID && other.ContactPhone == *req.ContactPhone {
				return contact.Contact{}, contact.ErrDuplicatePhone
			}
		}
		c.ContactPhone = *req.ContactPhone
	}
	if req.ContactName != nil {
		c.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		c.ContactEmail = *req.ContactEmail
	}
	if req.ContactAddress != nil {
		c.ContactAddress = *req.ContactAddress
	}
	if req.ContactGender != nil {
		c.ContactGender = *req.ContactGender
	}
	if req.ContactFavorite != nil {
		c.ContactFavorite = *req.ContactFavorite
	}

	c.UpdatedAt = time.Now().UTC()
	r.items[id] = c

	return c, nil
}

func (r *ContactsRepo) Delete(ctx context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok || c.UserID != userID {
		return contact.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
