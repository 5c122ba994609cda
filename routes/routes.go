package routes

import (
	"college-chat/handler"
	"college-chat/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*handler.ChatHandler
	Gatherer prometheus.Gatherer
}

func (rc *ConfigRoute) GetRoute() {
	rc.App.Use(rc.Middleware.RequestLogger)
	rc.GetPublicRoute()
	rc.GetProtectedRoute()
}

func (rc *ConfigRoute) GetPublicRoute() {
	if rc.Gatherer != nil {
		rc.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{})))
	}
}

func (rc *ConfigRoute) GetProtectedRoute() {
	app := rc.App.Group("/api/v1")
	app.Use(rc.Middleware.JWTProtected, rc.Middleware.ExtractUserID)

	app.Get("/chats", rc.ChatHandler.GetAllChat)
	app.Post("/chats", rc.ChatHandler.CreateChat)
	app.Delete("/chats/:chatId", rc.ChatHandler.DeleteChat)
	app.Get("/chats/:chatId/messages", rc.ChatHandler.GetMessagesByID)
}

func (rc *ConfigRoute) GetWebSocketRoute(wsHandler *handler.WebSocketHandler) {
	rc.App.Use("/ws", rc.Middleware.WebSocketAuth)
	rc.App.Get("/ws/chat", websocket.New(wsHandler.HandleWebSocket))
}
