package handler

import (
	"college-chat/config/logger"
	"college-chat/realtime"
	"college-chat/security"
	"college-chat/usecase"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

type WebSocketHandler struct {
	*logrus.Logger
	AppLog     *logger.AppLogger
	Verifier   security.Verifier
	Membership usecase.MembershipUsecase
	Messages   usecase.MessageUsecase
	Bus        realtime.Bus
	Metrics    *realtime.Metrics

	MediaURL         string
	OperationTimeout time.Duration
	SendBuffer       int
}

func NewWebSocketHandler(
	log *logrus.Logger,
	appLogger *logger.AppLogger,
	verifier security.Verifier,
	membership usecase.MembershipUsecase,
	messages usecase.MessageUsecase,
	bus realtime.Bus,
	metrics *realtime.Metrics,
	mediaURL string,
	operationTimeout time.Duration,
	sendBuffer int,
) *WebSocketHandler {
	return &WebSocketHandler{
		Logger:           log,
		AppLog:           appLogger,
		Verifier:         verifier,
		Membership:       membership,
		Messages:         messages,
		Bus:              bus,
		Metrics:          metrics,
		MediaURL:         mediaURL,
		OperationTimeout: operationTimeout,
		SendBuffer:       sendBuffer,
	}
}

func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	session := handler.NewSession(c, c.Query("access"))
	session.Serve()
}
