package httpapi

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shlok1014/ReWear/internal/adapter/ws"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/notifier"
)

// WSHandler upgrades authenticated sessions to the push notification channel.
// Browsers cannot set an Authorization header on the websocket dial, so the
// token travels as a query parameter instead.
type WSHandler struct {
	hub    *ws.Hub
	secret []byte
}

func NewWSHandler(hub *ws.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, secret: []byte(jwtSecret)}
}

// Upgrade rejects plain HTTP requests and stashes the session identity for
// the websocket handler that runs after the protocol switch.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, role, err := h.parseToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{
			Error: "Unauthorized: invalid or expired token",
		})
	}
	c.Locals("userID", userID)
	c.Locals("role", role)
	return c.Next()
}

// Serve runs for the lifetime of one websocket connection.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		role, _ := conn.Locals("role").(string)

		rooms := []string{notifier.UserChannel(userID)}
		if role == entity.RoleAdmin {
			rooms = append(rooms, notifier.AdminChannel)
		}

		client := ws.NewClient(h.hub, conn, userID, rooms)
		h.hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}

func (h *WSHandler) parseToken(raw string) (userID, role string, err error) {
	if raw == "" {
		return "", "", jwt.ErrTokenMalformed
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", jwt.ErrTokenMalformed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenMalformed
	}
	userID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", jwt.ErrTokenMalformed
	}
	if role == "" {
		role = entity.RoleCustomer
	}
	return userID, role, nil
}
