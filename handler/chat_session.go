package handler

import (
	"college-chat/dto/req"
	"college-chat/dto/res"
	"college-chat/enum"
	"college-chat/realtime"
	"college-chat/usecase"
	"context"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

type SessionState int

const (
	StateConnecting SessionState = iota
	StateAuthenticated
	StateActive
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateActive:
		return "active"
	default:
		return "closed"
	}
}

// ChatSession is the protocol state of one websocket. All methods run on the
// connection's read goroutine.
type ChatSession struct {
	*WebSocketHandler
	ws     realtime.Socket
	conn   *realtime.Connection
	token  string
	userID uint
	state  SessionState
}

func (handler *WebSocketHandler) NewSession(ws realtime.Socket, token string) *ChatSession {
	return &ChatSession{
		WebSocketHandler: handler,
		ws:               ws,
		token:            token,
		state:            StateConnecting,
	}
}

func (s *ChatSession) State() SessionState {
	return s.state
}

func (s *ChatSession) UserID() uint {
	return s.userID
}

// Open authenticates the session and subscribes it to every room of the user.
func (s *ChatSession) Open() error {
	if s.state != StateConnecting {
		return errors.New("session already opened")
	}
	userID, err := s.Verifier.Verify(s.token)
	if err != nil {
		s.state = StateClosed
		_ = s.ws.Close()
		return err
	}
	s.userID = userID
	s.state = StateAuthenticated

	s.conn = realtime.NewConnection(userID, s.ws, s.SendBuffer)
	ctx, cancel := s.operationContext()
	defer cancel()
	rooms := s.Membership.ListRooms(ctx, userID)
	for _, room := range rooms {
		s.Bus.Subscribe(room, s.conn)
	}
	s.conn.Start()
	s.state = StateActive
	s.Metrics.Connections.Inc()

	s.AppLog.WS.Info().
		Str("connectionId", s.conn.ID).
		Uint("userId", userID).
		Int("rooms", len(rooms)).
		Msg("connection accepted")
	return nil
}

// Serve opens the session and processes frames until the socket goes away.
func (s *ChatSession) Serve() {
	defer s.Close()
	if err := s.Open(); err != nil {
		s.AppLog.WS.Warn().Err(err).Msg("connection rejected")
		return
	}
	for s.state == StateActive {
		messageType, data, err := s.ws.ReadMessage()
		if err != nil {
			s.AppLog.WS.Debug().Err(err).Str("connectionId", s.conn.ID).Msg("read ended")
			return
		}
		s.HandleFrame(messageType, data)
	}
}

func (s *ChatSession) HandleFrame(messageType int, data []byte) {
	if s.state != StateActive {
		return
	}
	if _, err := s.Verifier.Verify(s.token); err != nil {
		s.AppLog.WS.Info().Uint("userId", s.userID).Msg("credential no longer valid, closing")
		s.Close()
		return
	}
	if messageType != websocket.TextMessage || len(data) == 0 {
		s.reject(req.NoMessageSent())
		return
	}

	request, err := req.DecodeMessageRequest(data)
	if err != nil {
		s.reject(err)
		return
	}
	chatID, err := request.ChatID()
	if err != nil {
		s.reject(err)
		return
	}

	ctx, cancel := s.operationContext()
	defer cancel()

	if !s.Membership.IsMember(ctx, s.userID, chatID) {
		s.reject(req.NotMember())
		return
	}
	kind, err := request.MessageType()
	if err != nil {
		s.reject(err)
		return
	}
	if !s.Membership.ChatExists(ctx, chatID) {
		s.reject(req.ChatNotFound(chatID))
		return
	}
	// the target message and its owner are checked before any other field is read
	if kind != enum.NewMessage {
		messageID, err := request.MessageID()
		if err != nil {
			s.reject(err)
			return
		}
		if !s.ownsMessage(ctx, messageID, chatID) {
			return
		}
	}
	cmd, err := request.Command(chatID, kind)
	if err != nil {
		s.reject(err)
		return
	}

	switch cmd := cmd.(type) {
	case req.NewMessageCommand:
		s.newMessage(ctx, cmd)
	case req.UpdateMessageCommand:
		s.updateMessage(ctx, cmd)
	case req.DeleteMessageCommand:
		s.deleteMessage(ctx, cmd)
	}
}

// Close unsubscribes from the rooms the user belongs to now, which may differ
// from the rooms joined at open.
func (s *ChatSession) Close() {
	if s.state == StateClosed {
		return
	}
	wasActive := s.state == StateActive
	s.state = StateClosed
	if s.conn == nil {
		_ = s.ws.Close()
		return
	}

	ctx, cancel := s.operationContext()
	defer cancel()
	for _, room := range s.Membership.ListRooms(ctx, s.userID) {
		s.Bus.Unsubscribe(room, s.conn)
	}
	s.conn.Close()
	if wasActive {
		s.Metrics.Connections.Dec()
	}
	s.AppLog.WS.Info().Str("connectionId", s.conn.ID).Uint("userId", s.userID).Msg("connection closed")
}

func (s *ChatSession) newMessage(ctx context.Context, cmd req.NewMessageCommand) {
	message, problems, err := s.Messages.NewMessage(ctx, cmd, s.userID)
	if err != nil {
		s.failed(err, cmd)
		return
	}
	payload := res.NewMessageResponse(message, s.MediaURL)
	payload.Errors = problems
	payload.ClientSideID = cmd.ClientSideID
	payload.MessageType = enum.NewMessage
	s.publish(ctx, cmd.ChatID, payload)
}

func (s *ChatSession) updateMessage(ctx context.Context, cmd req.UpdateMessageCommand) {
	message, problems, err := s.Messages.UpdateMessage(ctx, cmd)
	if err != nil {
		s.failed(err, cmd)
		return
	}
	payload := res.NewMessageResponse(message, s.MediaURL)
	payload.Errors = problems
	payload.MessageType = enum.UpdateMessage
	s.publish(ctx, cmd.ChatID, payload)
}

func (s *ChatSession) deleteMessage(ctx context.Context, cmd req.DeleteMessageCommand) {
	if err := s.Messages.DeleteMessage(ctx, cmd); err != nil {
		s.failed(err, cmd)
		return
	}
	s.publish(ctx, cmd.ChatID, res.DeletedMessageResponse{
		MessageID:   cmd.MessageID,
		ChatID:      cmd.ChatID,
		MessageType: enum.DeleteMessage,
	})
}

func (s *ChatSession) ownsMessage(ctx context.Context, messageID, chatID uint) bool {
	owner, err := s.Messages.IsMessageOwner(ctx, messageID, s.userID, chatID)
	if err != nil {
		s.Logger.WithError(err).WithField("messageId", messageID).Error("Failed to check message owner")
		s.reject(req.InternalError())
		return false
	}
	if !owner {
		s.reject(req.NotOwner())
		return false
	}
	return true
}

func (s *ChatSession) failed(err error, cmd req.Command) {
	switch {
	case errors.Is(err, usecase.ErrMessageNotFound):
		s.reject(req.MessageNotFound())
	case errors.Is(err, usecase.ErrChatNotFound):
		s.reject(req.ChatNotFound(cmd.Chat()))
	default:
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"userId":      s.userID,
			"chatId":      cmd.Chat(),
			"messageType": cmd.Type(),
		}).Error("Failed to process message command")
		s.reject(req.InternalError())
	}
}

func (s *ChatSession) publish(ctx context.Context, chatID uint, payload any) {
	frame, err := res.SuccessFrame(payload)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to encode frame")
		s.reject(req.InternalError())
		return
	}
	if err := s.Bus.Publish(ctx, chatID, frame); err != nil {
		s.Logger.WithError(err).WithField("chatId", chatID).Error("Failed to broadcast message")
		s.Metrics.FramesReceived.WithLabelValues(string(enum.FrameError)).Inc()
		return
	}
	s.Metrics.FramesReceived.WithLabelValues(string(enum.FrameSuccess)).Inc()
}

func (s *ChatSession) reject(cause error) {
	s.Metrics.FramesReceived.WithLabelValues(string(enum.FrameError)).Inc()
	var payload req.FrameError
	if !errors.As(cause, &payload) {
		payload = req.InternalError()
	}
	frame, err := res.ErrorFrame(payload)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to encode error frame")
		return
	}
	if err := s.conn.Send(frame); err != nil {
		s.AppLog.WS.Debug().Err(err).Str("connectionId", s.conn.ID).Msg("error frame dropped")
	}
}

func (s *ChatSession) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.OperationTimeout)
}
