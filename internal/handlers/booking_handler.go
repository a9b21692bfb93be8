package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	bookings *booking.Store
	// defaultActor is this process's role, used when a request names none.
	defaultActor domain.Actor
}

func NewBookingHandler(bookings *booking.Store, appRole string) *BookingHandler {
	return &BookingHandler{bookings: bookings, defaultActor: domain.Actor(appRole)}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientID    string  `json:"clientId"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	BarberID    string  `json:"barberId"`
	BarberName  string  `json:"barberName" binding:"required"`
	BarberImage string  `json:"barberImage"`
	Service     string  `json:"service" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Time        string  `json:"time" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor"`
}

type ActorRequest struct {
	Actor string `json:"actor"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), booking.CreateInput{
		UserID:      middleware.UserID(c),
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		BarberID:    req.BarberID,
		BarberName:  req.BarberName,
		BarberImage: req.BarberImage,
		Service:     req.Service,
		Date:        req.Date,
		Time:        req.Time,
		Price:       req.Price,
		Address:     req.Address,
		Phone:       req.Phone,
		Actor:       h.defaultActor,
	})
	if err != nil {
		internalError(c, "failed_to_create_booking", err)
		return
	}
	if b == nil {
		httperr.BadRequest(c, "invalid_booking", "Booking data is invalid.")
		return
	}
	httpresp.Created(c, b)
}

// ======================================================
// READS
// ======================================================

// List supports ?userId= and ?barberId=; ?view=summary returns list DTOs.
func (h *BookingHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		list []models.Booking
		err  error
	)
	switch {
	case c.Query("userId") != "":
		userID, perr := strconv.ParseInt(c.Query("userId"), 10, 64)
		if perr != nil {
			httperr.BadRequest(c, "invalid_user_id", "userId must be an integer.")
			return
		}
		list, err = h.bookings.ListByUser(ctx, userID)
	case c.Query("barberId") != "":
		list, err = h.bookings.ListByBarber(ctx, c.Query("barberId"))
	default:
		list, err = h.bookings.ListAll(ctx)
	}
	if err != nil {
		internalError(c, "failed_to_list_bookings", err)
		return
	}

	if c.Query("view") == "summary" {
		httpresp.List(c, dto.BookingList(list))
		return
	}
	httpresp.List(c, list)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed_to_get_booking", err)
		return
	}
	if b == nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	h.transition(c, domain.Status(req.Status), req.Actor)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := bodyActor(c)
	if !ok {
		return
	}
	h.transition(c, domain.StatusCancelled, actor)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	actor, ok := bodyActor(c)
	if !ok {
		return
	}
	h.transition(c, domain.StatusCompleted, actor)
}

// bodyActor reads the optional actor body. An empty body is allowed; a
// malformed one is answered with 400.
func bodyActor(c *gin.Context) (string, bool) {
	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return "", false
	}
	return req.Actor, true
}

func (h *BookingHandler) transition(c *gin.Context, status domain.Status, actorName string) {
	actor := h.defaultActor
	if actorName != "" {
		actor = domain.Actor(actorName)
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	ok, err := h.bookings.UpdateStatus(ctx, id, status, actor)
	if err != nil {
		internalError(c, "failed_to_update_booking", err)
		return
	}

	b, err := h.bookings.Get(ctx, id)
	if err != nil {
		internalError(c, "failed_to_get_booking", err)
		return
	}
	if b == nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	if !ok {
		code, _ := httperr.BusinessCode(domain.CanTransition(status, actor))
		if code == "invalid_actor" {
			httperr.BadRequest(c, code, "Actor must be client or barber.")
			return
		}
		httperr.BadRequest(c, "invalid_status", "Status must be cancelled or completed.")
		return
	}
	httpresp.OK(c, b)
}
