package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kitchen-ops-backend/internal/kitchen"
	"kitchen-ops-backend/internal/parse"
	"kitchen-ops-backend/internal/ticket"
)

// submitItemRequest is one line of a submitted ticket.
type submitItemRequest struct {
	Name      string   `json:"name" binding:"required"`
	Station   string   `json:"station" binding:"required"`
	Modifiers []string `json:"modifiers"`
	Notes     string   `json:"notes"`
	Quantity  int      `json:"quantity"`
}

// submitTicketRequest is the POST /api/tickets body.
type submitTicketRequest struct {
	OrderNumber     string              `json:"order_number" binding:"required"`
	Channel         string              `json:"channel" binding:"required"`
	FulfillmentType string              `json:"fulfillment_type"`
	TableNumber     string              `json:"table_number"`
	PromisedAt      time.Time           `json:"promised_at" binding:"required"`
	Items           []submitItemRequest `json:"items" binding:"required"`
	AllergenNotes   string              `json:"allergen_notes"`
	CustomerNotes   string              `json:"customer_notes"`
	Operator        string              `json:"operator"`
}

// actionRequest is the POST /api/tickets/:id/actions body.
type actionRequest struct {
	Action   string `json:"action" binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Reason   string `json:"reason"`
	ItemID   string `json:"item_id"`
}

// SubmitTicket handles POST /api/tickets.
func (h *Handler) SubmitTicket(c *gin.Context) {
	var req submitTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := &ticket.Ticket{
		OrderNumber:     req.OrderNumber,
		Channel:         ticket.Channel(req.Channel),
		FulfillmentType: req.FulfillmentType,
		TableNumber:     req.TableNumber,
		PromisedAt:      req.PromisedAt,
		AllergenNotes:   req.AllergenNotes,
		CustomerNotes:   req.CustomerNotes,
	}
	for _, it := range req.Items {
		t.Items = append(t.Items, ticket.Item{
			Name:      it.Name,
			Station:   it.Station,
			Modifiers: it.Modifiers,
			Notes:     it.Notes,
			Quantity:  it.Quantity,
		})
	}

	operator := req.Operator
	if operator == "" {
		operator = "order-intake"
	}

	stored, err := h.svc.SubmitTicket(c.Request.Context(), t, operator)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// ListTickets handles GET /api/tickets with optional status and station
// filters.
func (h *Handler) ListTickets(c *gin.Context) {
	filter, err := parse.TicketFilter(c.Query("status"), c.Query("station"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": h.svc.ListTickets(filter)})
}

// GetTicket handles GET /api/tickets/:id.
func (h *Handler) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	t, err := h.svc.GetTicket(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ApplyAction handles POST /api/tickets/:id/actions, the single entry point
// for start, bump, recall, complete, and remake.
func (h *Handler) ApplyAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := ticket.ActionByName(req.Action)
	if action == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown action " + req.Action})
		return
	}

	svcReq := kitchen.ActionRequest{
		TicketID: id,
		Action:   action,
		Operator: req.Operator,
		Reason:   req.Reason,
	}
	if req.ItemID != "" {
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
			return
		}
		svcReq.ItemID = itemID
	}

	t, err := h.svc.ApplyAction(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
