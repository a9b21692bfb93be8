package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs     *audit.Logger
	location *time.Location
}

func NewAuditLogsHandler(logs *audit.Logger, tz string) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, location: timezone.Location(tz)}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Optional date range, whole days in the shop's zone
	// --------------------------------------------------

	if from, err := time.ParseInLocation("2006-01-02", c.Query("from"), h.location); err == nil {
		f.From = from
	}
	if to, err := time.ParseInLocation("2006-01-02", c.Query("to"), h.location); err == nil {
		f.To = to.Add(24 * time.Hour)
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		internalError(c, "audit_list_failed", err)
		return
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	c.JSON(200, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}
