package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAlerts handles GET /api/alerts: the latest bottleneck alert set, worst
// first.
func (h *Handler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.svc.CurrentAlerts()})
}

// GetInsights handles GET /api/insights: the latest mistake insight set.
func (h *Handler) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"insights": h.svc.CurrentInsights()})
}

// adjustLoadRequest is the POST /api/load body. Scope is "global" or a
// station name.
type adjustLoadRequest struct {
	Scope string `json:"scope" binding:"required"`
	Delta int    `json:"delta"`
}

// AdjustLoad handles POST /api/load.
func (h *Handler) AdjustLoad(c *gin.Context) {
	var req adjustLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	value, err := h.svc.AdjustLoad(req.Scope, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scope": req.Scope, "percent": value})
}
