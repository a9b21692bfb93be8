package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store/directory"
)

type ClientHandler struct {
	clients *directory.Clients
}

func NewClientHandler(clients *directory.Clients) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// ======================================================
// LIST
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.clients.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		internalError(c, "failed_to_list_clients", err)
		return
	}
	httpresp.List(c, list)
}

// ======================================================
// CREATE
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	cl, err := h.clients.Create(c.Request.Context(), directory.ClientInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		internalError(c, "failed_to_create_client", err)
		return
	}
	if cl == nil {
		httperr.Conflict(c, "client_rejected", "A client with this phone already exists or the data is invalid.")
		return
	}
	httpresp.Created(c, cl)
}

// ======================================================
// UPDATE
// ======================================================
func (h *ClientHandler) Update(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	ok, err := h.clients.Update(ctx, models.Client{
		ID:    id,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		internalError(c, "failed_to_update_client", err)
		return
	}
	if !ok {
		if existing, _ := h.clients.Get(ctx, id); existing == nil {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return
		}
		httperr.Conflict(c, "client_rejected", "Phone belongs to another client or the data is invalid.")
		return
	}

	cl, err := h.clients.Get(ctx, id)
	if err != nil {
		internalError(c, "failed_to_get_client", err)
		return
	}
	httpresp.OK(c, cl)
}

// ======================================================
// DELETE
// ======================================================
func (h *ClientHandler) Delete(c *gin.Context) {
	ok, err := h.clients.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed_to_delete_client", err)
		return
	}
	if !ok {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// DERIVE FROM BOOKINGS
// ======================================================
func (h *ClientHandler) Derive(c *gin.Context) {
	added, err := h.clients.DeriveFromBookings(c.Request.Context())
	if err != nil {
		internalError(c, "failed_to_derive_clients", err)
		return
	}
	httpresp.OK(c, gin.H{"added": added})
}
