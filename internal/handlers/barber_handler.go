package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/store/directory"
)

type BarberHandler struct {
	barbers *directory.Barbers
}

func NewBarberHandler(barbers *directory.Barbers) *BarberHandler {
	return &BarberHandler{barbers: barbers}
}

func (h *BarberHandler) List(c *gin.Context) {
	list, err := h.barbers.List(c.Request.Context())
	if err != nil {
		internalError(c, "failed_to_list_barbers", err)
		return
	}
	httpresp.List(c, list)
}

func (h *BarberHandler) Get(c *gin.Context) {
	b, err := h.barbers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed_to_get_barber", err)
		return
	}
	if b == nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}
	httpresp.OK(c, b)
}
