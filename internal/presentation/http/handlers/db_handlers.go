package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// DBHandlers exposes database health.
type DBHandlers struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewDBHandlers(db *sql.DB, logger *logging.ChanneledLogger) *DBHandlers {
	return &DBHandlers{db: db, logger: logger}
}

// GetStatus handles GET /api/v1/db/status.
func (h *DBHandlers) GetStatus(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.logger.Database().Error("Database ping failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
