package websocket

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/roomloop/chat_backend/errs"
	"github.com/roomloop/chat_backend/services"
	"github.com/roomloop/chat_backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// Handler upgrades authenticated requests into presence sessions.
type Handler struct {
	hub   *Hub
	users *services.UsersService
}

func NewHandler(hub *Hub, users *services.UsersService) *Handler {
	return &Handler{hub: hub, users: users}
}

// HandleConnection authenticates the bearer credential and registers the
// session with the hub. A missing or invalid credential terminates the
// connection attempt; there is no retry at this layer.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		reqErr := errs.NewNotAuthenticated()
		c.JSON(reqErr.Status, reqErr)
		return
	}

	userID, err := utils.ParseToken(token)
	if err != nil {
		reqErr := errs.NewNotAuthenticated()
		c.JSON(reqErr.Status, reqErr)
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		reqErr := errs.NewNotAuthenticated()
		c.JSON(reqErr.Status, reqErr)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error upgrading connection: %v", err)
		return
	}

	client := newClient(h.hub, conn, user.ID)
	h.hub.register <- client

	go client.readPump()
	go client.writePump()
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter for browser websocket clients that
// cannot set headers.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return c.Query("token")
}
