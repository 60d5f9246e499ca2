package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/websocket"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// Connect upgrades the caller to the dashboard live feed
func (wc *WebSocketController) Connect(c echo.Context) error {
	return websocket.HandleWebSocket(c, wc.hub, middleware.UID(c))
}
