package usecase

import (
	"college-chat/dto/req"
	"college-chat/dto/res"
	"college-chat/entity"
	"college-chat/repository"
	"college-chat/storage"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ChatUsecaseImpl struct {
	*gorm.DB
	*logrus.Logger
	*validator.Validate
	Chats    ChatStore
	Messages MessageStore
	Files    FileStore
	Blobs    storage.BlobStore
	MediaURL string
}

func NewChatUsecase(db *gorm.DB, logger *logrus.Logger, validate *validator.Validate, chats ChatStore, messages MessageStore, files FileStore, blobs storage.BlobStore, mediaURL string) *ChatUsecaseImpl {
	return &ChatUsecaseImpl{
		DB:       db,
		Logger:   logger,
		Validate: validate,
		Chats:    chats,
		Messages: messages,
		Files:    files,
		Blobs:    blobs,
		MediaURL: mediaURL,
	}
}

func (uc *ChatUsecaseImpl) CreateChat(ctx context.Context, request req.CreateChatRequest) (*entity.Chat, error) {
	request.Title = strings.TrimSpace(request.Title)
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Warn("Invalid chat request")
		return nil, err
	}

	taken, err := uc.Chats.ExistsByTitle(ctx, uc.DB, request.Title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if taken {
		return nil, ErrChatTitleTaken
	}

	chat := &entity.Chat{Title: request.Title, Cover: request.Cover}
	members := make([]entity.ChatUser, 0, len(request.MemberIDs))
	for _, id := range uniqueIDs(request.MemberIDs) {
		members = append(members, entity.ChatUser{UserID: id})
	}
	if err := uc.Chats.CreateChatWithMembers(ctx, uc.DB, chat, members); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	uc.Logger.WithFields(logrus.Fields{"chatId": chat.ID, "members": len(members)}).Info("Chat created")
	return chat, nil
}

// DeleteChat removes the chat with everything it owns and then releases the blobs.
func (uc *ChatUsecaseImpl) DeleteChat(ctx context.Context, chatID uint) error {
	chat, err := uc.Chats.FindChatByID(ctx, uc.DB, chatID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrChatNotFound
	}
	if err != nil {
		return fmt.Errorf("find chat: %w", err)
	}

	files, err := uc.Files.FindByChat(ctx, uc.DB, chat.ID)
	if err != nil {
		return fmt.Errorf("find chat files: %w", err)
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	if err := uc.Files.DeleteFiles(ctx, trx, files); err != nil {
		return fmt.Errorf("delete chat files: %w", err)
	}
	if err := uc.Chats.DeleteChat(ctx, trx, chat); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if err := trx.Commit().Error; err != nil {
		return fmt.Errorf("commit chat delete: %w", err)
	}

	paths := make([]string, 0, len(files)+1)
	for _, file := range files {
		paths = append(paths, file.Path)
	}
	if chat.Cover != "" {
		paths = append(paths, chat.Cover)
	}
	for _, path := range paths {
		if err := uc.Blobs.Remove(ctx, path); err != nil {
			uc.Logger.WithError(err).WithField("path", path).Warn("Failed to release chat blob")
		}
	}

	uc.Logger.WithField("chatId", chat.ID).Info("Chat deleted")
	return nil
}

func (uc *ChatUsecaseImpl) GetChatsByUser(ctx context.Context, userID uint) ([]res.ChatResponse, error) {
	chats, err := uc.Chats.FindAllByUserID(ctx, uc.DB, userID)
	if err != nil {
		uc.Logger.WithError(err).Error("Failed to get chats by user ID")
		return nil, err
	}

	responses := make([]res.ChatResponse, 0, len(chats))
	for i := range chats {
		last, err := uc.Messages.FindLastInChat(ctx, uc.DB, chats[i].ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find last message: %w", err)
		}
		responses = append(responses, res.NewChatResponse(&chats[i], last, uc.MediaURL))
	}
	return responses, nil
}

// GetHistory pages the chat newest first and advances the caller's last_read marker.
func (uc *ChatUsecaseImpl) GetHistory(ctx context.Context, userID, chatID uint, request req.HistoryRequest) (res.HistoryResponse, error) {
	if err := uc.Validate.Struct(request); err != nil {
		return res.HistoryResponse{}, err
	}

	member, err := uc.Chats.FindMembership(ctx, uc.DB, chatID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return res.HistoryResponse{}, ErrNotMember
	}
	if err != nil {
		return res.HistoryResponse{}, fmt.Errorf("verify participant: %w", err)
	}

	limit := request.PageSize()
	response := res.HistoryResponse{Results: make([]res.MessageResponse, 0, limit)}
	var messages []entity.Message
	if request.After > 0 {
		messages, err = uc.Messages.FindNewer(ctx, uc.DB, chatID, request.After, limit+1)
		if err != nil {
			return res.HistoryResponse{}, fmt.Errorf("get messages: %w", err)
		}
		if len(messages) > limit {
			messages = messages[1:]
			response.Previous = &messages[0].ID
		}
		if len(messages) > 0 {
			response.Next = &messages[len(messages)-1].ID
		}
	} else {
		messages, err = uc.Messages.FindHistory(ctx, uc.DB, chatID, request.Cursor, limit+1)
		if err != nil {
			return res.HistoryResponse{}, fmt.Errorf("get messages: %w", err)
		}
		if len(messages) > limit {
			messages = messages[:limit]
			response.Next = &messages[limit-1].ID
		}
		if request.Cursor > 0 && len(messages) > 0 {
			response.Previous = &messages[0].ID
		}
	}
	for i := range messages {
		response.Results = append(response.Results, res.NewMessageResponse(&messages[i], uc.MediaURL))
	}

	if len(messages) > 0 {
		if err := uc.advanceLastRead(ctx, member, messages[0].ID); err != nil {
			return res.HistoryResponse{}, err
		}
	}
	response.LastRead = member.LastRead
	return response, nil
}

// advanceLastRead starts an unset marker at the newest message of the chat and
// otherwise only moves it forward.
func (uc *ChatUsecaseImpl) advanceLastRead(ctx context.Context, member *entity.ChatUser, newest uint) error {
	target := newest
	if member.LastRead == nil {
		last, err := uc.Messages.FindLastInChat(ctx, uc.DB, member.ChatID)
		if err != nil {
			return fmt.Errorf("find last message: %w", err)
		}
		target = last.ID
	} else if newest <= *member.LastRead {
		return nil
	}
	if err := uc.Chats.UpdateLastRead(ctx, uc.DB, member, target); err != nil {
		return fmt.Errorf("update last read: %w", err)
	}
	return nil
}
