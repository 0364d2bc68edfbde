package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kitchen-ops-backend/internal/model"
	"kitchen-ops-backend/internal/parse"
)

// GetHistory handles GET /api/history?since=&until=&station=, serving
// archived tickets from the durable sink.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "ticket history is not configured"})
		return
	}

	since, until, err := parse.TimeRange(c.Query("since"), c.Query("until"), time.Now().UTC())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := h.history.WithContext(c.Request.Context()).
		Preload("Items").
		Preload("Timeline").
		Where("completed_at IS NOT NULL AND completed_at <= ?", until).
		Order("completed_at DESC").
		Limit(500)
	if !since.IsZero() {
		q = q.Where("completed_at >= ?", since)
	}
	if station := c.Query("station"); station != "" {
		q = q.Where("id IN (?)", h.history.
			Model(&model.ArchivedItem{}).
			Select("ticket_id").
			Where("station = ?", station))
	}

	var archived []model.TicketArchive
	if err := q.Find(&archived).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve ticket history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": archived})
}
