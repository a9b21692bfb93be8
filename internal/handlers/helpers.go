package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/logger"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

// internalError logs err with the request logger and writes a generic 500, or
// a 409 when the write kept losing to concurrent writers.
func internalError(c *gin.Context, code string, err error) {
	logger.FromGin(c).Error(code, zap.Error(err))
	if errors.Is(err, store.ErrConflict) {
		httperr.Write(c, http.StatusConflict, "write_conflict", "The record changed concurrently, try again.")
		return
	}
	httperr.Internal(c, code, "Something went wrong.")
}
