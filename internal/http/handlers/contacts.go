package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/contactbook/internal/config"
	"github.com/geocoder89/contactbook/internal/domain/contact"
	"github.com/geocoder89/contactbook/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type ContactStore interface {
	Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error)
	ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error)
	GetByPhoneAndUser(ctx context.Context, phone string, userID int64) (contact.Contact, error)
	Update(ctx context.Context, id, userID int64, req contact.UpdateContactRequest) (contact.Contact, error)
	Delete(ctx context.Context, id, userID int64) error
}

type ContactsHandler struct {
	contacts ContactStore
}

func NewContactsHandler(contacts ContactStore) *ContactsHandler {
	return &ContactsHandler{contacts: contacts}
}

type DeleteContactRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid "+name+" in path", nil)
		return 0, false
	}

	return id, true
}

func (h *ContactsHandler) FetchContacts(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	contacts, err := h.contacts.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch contacts")
		return
	}

	// the repo hands back an empty slice; the API contract calls that 404
	if len(contacts) == 0 {
		RespondNotFound(ctx, "No contacts found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"count":    len(contacts),
		"contacts": contacts,
	})
}

func (h *ContactsHandler) AddContact(ctx *gin.Context) {
	var req contact.CreateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.ContactGender = user.NormalizeGender(req.ContactGender)
	if req.ContactGender == "" {
		req.ContactGender = "other"
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// duplicate pre-check; the (user_id, contact_phone) unique index backs
	// this up if two identical requests race
	_, err := h.contacts.GetByPhoneAndUser(cctx, req.ContactPhone, req.UserID)

	if err == nil {
		RespondConflict(ctx, "Contact number already exists")
		return
	}

	if !errors.Is(err, contact.ErrNotFound) {
		RespondInternal(ctx, "Failed to add contact")
		return
	}

	created, err := h.contacts.Create(cctx, req)

	if err != nil {
		if errors.Is(err, contact.ErrDuplicatePhone) {
			RespondConflict(ctx, "Contact number already exists")
			return
		}

		RespondInternal(ctx, "Failed to add contact")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  http.StatusCreated,
		"message": "Contact added successfully",
		"data":    created,
	})
}

func (h *ContactsHandler) UpdateContact(ctx *gin.Context) {
	contactID, ok := pathID(ctx, "contactId")

	if !ok {
		return
	}

	var req contact.UpdateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !req.HasChanges() {
		RespondBadRequest(ctx, "No valid fields provided for update", nil)
		return
	}

	if req.ContactGender != nil {
		normalized := user.NormalizeGender(*req.ContactGender)
		req.ContactGender = &normalized
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.contacts.Update(cctx, contactID, req.UserID, req)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found or not owned by user")
			return
		}

		if errors.Is(err, contact.ErrDuplicatePhone) {
			RespondConflict(ctx, "Contact number already exists")
			return
		}

		RespondInternal(ctx, "Failed to update contact")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Contact updated successfully",
		"data":    updated,
	})
}

func (h *ContactsHandler) DeleteContact(ctx *gin.Context) {
	contactID, ok := pathID(ctx, "contactId")

	if !ok {
		return
	}

	var req DeleteContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.contacts.Delete(cctx, contactID, req.UserID)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found or not owned by user")
			return
		}

		RespondInternal(ctx, "Failed to delete contact")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Contact deleted successfully",
	})
}
