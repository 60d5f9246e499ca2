package websocket

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

// checkOrigin accepts same-host requests and origins listed in
// CORS_ALLOWED_ORIGINS. An empty list accepts everything.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowed == "" {
		return true
	}
	for _, o := range strings.Split(allowed, ",") {
		if strings.TrimSpace(o) == origin {
			return true
		}
	}
	return strings.HasSuffix(origin, "://"+r.Host)
}

// HandleWebSocket upgrades an authenticated request and registers the
// connection under uid. Incoming messages are drained and ignored.
func HandleWebSocket(c echo.Context, hub *Hub, uid string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{UserID: uid, Conn: conn}
	hub.register <- client

	greet(client)

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}

// greet sends the connected notification. A failed write only gets logged;
// the read loop sees the broken connection and unregisters it.
func greet(client *Client) {
	err := client.WriteJSON(Notification{
		Type:    NotificationTypeConnected,
		Message: "WebSocket connection established",
		UserID:  client.UserID,
	})
	if err != nil {
		logging.Debug("WebSocket welcome failed", "uid", client.UserID, "error", err)
	}
}
