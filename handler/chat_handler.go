package handler

import (
	"college-chat/dto/req"
	"college-chat/dto/res"
	"college-chat/usecase"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	usecase.ChatUsecase
	Membership usecase.MembershipUsecase
	*logrus.Logger
	MediaURL string
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, membership usecase.MembershipUsecase, logger *logrus.Logger, mediaURL string) *ChatHandler {
	return &ChatHandler{
		ChatUsecase: chatUsecase,
		Membership:  membership,
		Logger:      logger,
		MediaURL:    mediaURL,
	}
}

func (handler *ChatHandler) GetAllChat(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	chatResponses, err := handler.ChatUsecase.GetChatsByUser(c.UserContext(), userID)
	if err != nil {
		handler.Logger.WithError(err).Error("Failed to get chats")
		return fiber.ErrInternalServerError
	}

	return c.Status(fiber.StatusOK).JSON(res.CommonResponse[[]res.ChatResponse]{
		Message:    "Successfully to Get All Chats",
		StatusCode: fiber.StatusOK,
		Data:       chatResponses,
	})
}

// GetMessagesByID pages the chat history; reading it advances the caller's last_read.
func (handler *ChatHandler) GetMessagesByID(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	chatID, err := chatIDParam(c)
	if err != nil {
		return err
	}

	query := new(req.HistoryRequest)
	if err := c.QueryParser(query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cursor and limit must be positive integers")
	}

	history, err := handler.ChatUsecase.GetHistory(c.UserContext(), userID, chatID, *query)
	if err != nil {
		return handler.mapError(err, "Failed to get messages by chat ID")
	}
	return c.Status(fiber.StatusOK).JSON(history)
}

func (handler *ChatHandler) CreateChat(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(req.CreateChatRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chat payload")
	}
	payload.MemberIDs = append(payload.MemberIDs, userID)

	chat, err := handler.ChatUsecase.CreateChat(c.UserContext(), *payload)
	if err != nil {
		return handler.mapError(err, "Failed to create chat")
	}

	return c.Status(fiber.StatusCreated).JSON(res.CommonResponse[res.ChatResponse]{
		Message:    "Successfully to Create Chat",
		StatusCode: fiber.StatusCreated,
		Data:       res.NewChatResponse(chat, nil, handler.MediaURL),
	})
}

func (handler *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	chatID, err := chatIDParam(c)
	if err != nil {
		return err
	}

	if !handler.Membership.IsMember(c.UserContext(), userID, chatID) {
		return fiber.NewError(fiber.StatusForbidden, usecase.ErrNotMember.Error())
	}
	if err := handler.ChatUsecase.DeleteChat(c.UserContext(), chatID); err != nil {
		return handler.mapError(err, "Failed to delete chat")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *ChatHandler) mapError(err error, msg string) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return fiber.NewError(fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, usecase.ErrNotMember):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrChatNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrChatTitleTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	handler.Logger.WithError(err).Error(msg)
	return fiber.ErrInternalServerError
}

func currentUser(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok || userID == 0 {
		return 0, fiber.ErrUnauthorized
	}
	return userID, nil
}

func chatIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("chatId"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "chatId is required")
	}
	return uint(id), nil
}
