package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/contactbook/internal/config"
	"github.com/geocoder89/contactbook/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	Profile(ctx context.Context, id int64) (user.Profile, error)
	UpdateProfile(ctx context.Context, id int64, req user.UpdateProfileRequest) (user.User, error)
}

type ProfileHandler struct {
	users ProfileStore
}

func NewProfileHandler(users ProfileStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) GetProfile(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	profile, err := h.users.Profile(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Failed to fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"profile": profile,
	})
}

func (h *ProfileHandler) UpdateProfile(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")

	if !ok {
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.Gender = user.NormalizeGender(req.Gender)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.users.UpdateProfile(cctx, userID, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "User with this email already exists")
			return
		}

		RespondInternal(ctx, "Failed to update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Profile updated successfully",
		"user":    updated,
	})
}
