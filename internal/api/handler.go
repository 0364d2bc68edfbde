package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"kitchen-ops-backend/internal/kitchen"
	"kitchen-ops-backend/internal/ticket"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *kitchen.Service
	history *gorm.DB
}

// NewHandler creates a new API handler. history may be nil when the durable
// sink is not configured; the history endpoint then reports unavailable.
func NewHandler(svc *kitchen.Service, history *gorm.DB) *Handler {
	return &Handler{svc: svc, history: history}
}

// respondError maps the core error taxonomy onto HTTP statuses. Every
// rejection surfaces the specific reason so an operator UI can explain why.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ticket.ErrTicketNotFound), errors.Is(err, ticket.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ticket.ErrInvalidTransition), errors.Is(err, ticket.ErrDuplicateTicket):
		status = http.StatusConflict
	case errors.Is(err, ticket.ErrMalformedTicket),
		errors.Is(err, ticket.ErrEmptyActionContext),
		errors.Is(err, ticket.ErrUnknownAction):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
