package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store/directory"
)

type ServiceHandler struct {
	services *directory.Services
}

func NewServiceHandler(services *directory.Services) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"required,min=1"`
	Category    string  `json:"category"`
}

// --------- Handlers ---------

// List supports ?active=true|false and ?category=. Soft-deleted services are
// included unless the caller asks for active ones.
func (h *ServiceHandler) List(c *gin.Context) {
	list, err := h.services.List(c.Request.Context())
	if err != nil {
		internalError(c, "failed_to_list_services", err)
		return
	}

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		list = directory.ActiveOnly(list)
	case "false":
		inactive := make([]models.Service, 0, len(list))
		for _, s := range list {
			if !s.IsActive {
				inactive = append(inactive, s)
			}
		}
		list = inactive
	}

	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		filtered := make([]models.Service, 0, len(list))
		for _, s := range list {
			if s.Category == category {
				filtered = append(filtered, s)
			}
		}
		list = filtered
	}

	httpresp.List(c, list)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.services.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed_to_get_service", err)
		return
	}
	if svc == nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.services.Create(c.Request.Context(), directory.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    req.Category,
	})
	if err != nil {
		internalError(c, "failed_to_create_service", err)
		return
	}
	if svc == nil {
		httperr.BadRequest(c, "invalid_service", "Service data is invalid.")
		return
	}
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req directory.ServicePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	svc, err := h.services.Update(ctx, c.Param("id"), req)
	if err != nil {
		internalError(c, "failed_to_update_service", err)
		return
	}
	if svc == nil {
		if existing, _ := h.services.Get(ctx, c.Param("id")); existing != nil {
			httperr.BadRequest(c, "invalid_service", "Service data is invalid.")
			return
		}
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	httpresp.OK(c, svc)
}

// Deactivate soft-deletes the service.
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	ok, err := h.services.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "failed_to_deactivate_service", err)
		return
	}
	if !ok {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	c.Status(http.StatusNoContent)
}
