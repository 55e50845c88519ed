package controllers

import (
	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// Upgrade gates the websocket handshake. The browser websocket API
// cannot set headers, so the access token rides in the token query
// parameter.
func (wsc *WebSocketController) Upgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenString := c.Query("token")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing token",
		})
	}

	claims, err := middleware.ParseToken(tokenString)
	if err != nil || claims.TokenType != "access" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	}
	if middleware.IsTokenBlacklisted(tokenString) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	var user models.User
	if err := database.DB.Where("id = ? AND active = ?", claims.UserID, true).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found or inactive",
		})
	}

	c.Locals("ws_user_id", user.ID)
	return c.Next()
}

// Serve is the fiber websocket handler; it hands the connection to the
// hub until the peer disconnects.
func (wsc *WebSocketController) Serve() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		userID, ok := conn.Locals("ws_user_id").(uint)
		if !ok {
			conn.Close()
			return
		}
		wsc.hub.Serve(conn, userID)
	})
}

// Stats reports the number of connected users. Principal only.
func (wsc *WebSocketController) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_users": wsc.hub.ConnectedUsers(),
	})
}
