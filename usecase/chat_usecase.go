package usecase

import (
	"college-chat/dto/req"
	"college-chat/dto/res"
	"college-chat/entity"
	"context"
)

type ChatUsecase interface {
	CreateChat(ctx context.Context, request req.CreateChatRequest) (*entity.Chat, error)
	DeleteChat(ctx context.Context, chatID uint) error
	GetChatsByUser(ctx context.Context, userID uint) ([]res.ChatResponse, error)
	GetHistory(ctx context.Context, userID, chatID uint, request req.HistoryRequest) (res.HistoryResponse, error)
}
