package handler

import (
	"net/http"

	"medtracker/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// RealtimeHandler upgrades authenticated requests to WebSocket subscriptions
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Connect subscribes the connection to the authenticated user's updates
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		logrus.WithField("user_id", userID).WithError(err).Warn("Failed to upgrade connection")
		return
	}

	realtime.NewClient(h.hub, conn, userID).Run()
	logrus.WithField("user_id", userID).Info("Realtime client connected")
}

// RegisterRealtimeRoutes registers the WebSocket endpoint behind authMW
func (h *RealtimeHandler) RegisterRealtimeRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/ws", authMW, h.Connect)
}
