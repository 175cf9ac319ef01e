package handlers

import (
	"github.com/gin-gonic/gin"

	"designhub-backend/internal/websocket"
)

type EventsHandler struct {
	hub *websocket.Hub
}

func NewEventsHandler(hub *websocket.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary     Admin event stream
// @Description WebSocket stream of "orders_changed" and "new_order" events. The token may be passed as a query parameter.
// @Tags        admin
// @Security    Bearer
// @Param       token query string false "Admin token"
// @Success     101
// @Router      /api/v1/admin/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
