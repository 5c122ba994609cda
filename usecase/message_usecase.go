package usecase

import (
	"college-chat/dto/req"
	"college-chat/entity"
	"context"
)

type MessageUsecase interface {
	NewMessage(ctx context.Context, cmd req.NewMessageCommand, authorID uint) (*entity.Message, Problems, error)
	UpdateMessage(ctx context.Context, cmd req.UpdateMessageCommand) (*entity.Message, Problems, error)
	DeleteMessage(ctx context.Context, cmd req.DeleteMessageCommand) error
	IsMessageOwner(ctx context.Context, messageID, userID, chatID uint) (bool, error)
}
