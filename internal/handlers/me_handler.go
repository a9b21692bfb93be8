package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/store/booking"
	"github.com/BruksfildServices01/barberbook/internal/store/identity"
)

type MeHandler struct {
	users    *identity.Store
	bookings *booking.Store
}

func NewMeHandler(users *identity.Store, bookings *booking.Store) *MeHandler {
	return &MeHandler{users: users, bookings: bookings}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		internalError(c, "user_lookup_failed", err)
		return
	}
	if user == nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"phone":     user.Phone,
			"createdAt": user.CreatedAt,
		},
	})
}

// Bookings lists the caller's bookings, linked by user id or phone.
func (h *MeHandler) Bookings(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.users.FindByID(ctx, middleware.UserID(c))
	if err != nil {
		internalError(c, "user_lookup_failed", err)
		return
	}
	if user == nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	list, err := h.bookings.ListForIdentity(ctx, booking.Identity{UserID: user.ID, Phone: user.Phone})
	if err != nil {
		internalError(c, "failed_to_list_bookings", err)
		return
	}
	httpresp.List(c, dto.BookingList(list))
}
