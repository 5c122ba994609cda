package usecase

import (
	"college-chat/dto/req"
	"college-chat/entity"
	"college-chat/enum"
	"college-chat/event"
	"college-chat/repository"
	"college-chat/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MessageUsecaseImpl struct {
	*gorm.DB
	*logrus.Logger
	Chats    ChatStore
	Messages MessageStore
	Files    FileStore
	Articles ArticleStore
	Blobs    storage.BlobStore
	Events   event.Publisher
}

func NewMessageUsecase(db *gorm.DB, logger *logrus.Logger, chats ChatStore, messages MessageStore, files FileStore, articles ArticleStore, blobs storage.BlobStore, events event.Publisher) *MessageUsecaseImpl {
	return &MessageUsecaseImpl{
		DB:       db,
		Logger:   logger,
		Chats:    chats,
		Messages: messages,
		Files:    files,
		Articles: articles,
		Blobs:    blobs,
		Events:   events,
	}
}

func (uc *MessageUsecaseImpl) NewMessage(ctx context.Context, cmd req.NewMessageCommand, authorID uint) (*entity.Message, Problems, error) {
	chat, err := uc.Chats.FindChatByID(ctx, uc.DB, cmd.ChatID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrChatNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find chat: %w", err)
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	message := &entity.Message{
		UserID: authorID,
		ChatID: chat.ID,
		Text:   cmd.Text,
		Date:   time.Now().UTC(),
	}
	if err := uc.Messages.CreateMessage(ctx, trx, message); err != nil {
		return nil, nil, fmt.Errorf("create message: %w", err)
	}

	problems := Problems{}
	if cmd.Files != nil {
		wanted := uniqueIDs(cmd.Files)
		files, err := uc.Files.FindFree(ctx, trx, chat.ID, wanted)
		if err != nil {
			return nil, nil, fmt.Errorf("find files: %w", err)
		}
		if missing := subtractIDs(wanted, fileIDs(files)); len(missing) > 0 {
			problems["files"] = "Files with the following ids not found: " + joinIDs(missing)
		}
		if err := uc.Files.AttachToMessage(ctx, trx, message.ID, files); err != nil {
			return nil, nil, fmt.Errorf("attach files: %w", err)
		}
	}
	if cmd.Articles != nil {
		wanted := uniqueIDs(cmd.Articles)
		articles, err := uc.Articles.FindAllByIDs(ctx, trx, wanted)
		if err != nil {
			return nil, nil, fmt.Errorf("find articles: %w", err)
		}
		if missing := subtractIDs(wanted, articleIDs(articles)); len(missing) > 0 {
			problems["articles"] = "Articles with the following ids not found: " + joinIDs(missing)
		}
		if err := uc.Articles.AttachToMessage(ctx, trx, message, articles); err != nil {
			return nil, nil, fmt.Errorf("attach articles: %w", err)
		}
	}

	if err := trx.Commit().Error; err != nil {
		return nil, nil, fmt.Errorf("commit message: %w", err)
	}

	saved, err := uc.Messages.FindMessageByID(ctx, uc.DB, message.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload message: %w", err)
	}
	uc.publish(ctx, enum.NewMessage, saved)
	return saved, problems.OrNil(), nil
}

func (uc *MessageUsecaseImpl) UpdateMessage(ctx context.Context, cmd req.UpdateMessageCommand) (*entity.Message, Problems, error) {
	message, err := uc.findMessage(ctx, cmd.MessageID)
	if err != nil {
		return nil, nil, err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	if cmd.Text != nil {
		message.Text = *cmd.Text
		if err := uc.Messages.UpdateText(ctx, trx, message); err != nil {
			return nil, nil, fmt.Errorf("update text: %w", err)
		}
	}

	problems := Problems{}
	var released []entity.File
	if cmd.Files != nil {
		fileProblems, removed, err := uc.reconcileFiles(ctx, trx, message, cmd.Files)
		if err != nil {
			return nil, nil, err
		}
		if len(fileProblems) > 0 {
			problems["files"] = fileProblems
		}
		released = removed
	}
	if cmd.Articles != nil {
		articleProblems, err := uc.reconcileArticles(ctx, trx, message, cmd.Articles)
		if err != nil {
			return nil, nil, err
		}
		if len(articleProblems) > 0 {
			problems["articles"] = articleProblems
		}
	}

	if err := trx.Commit().Error; err != nil {
		return nil, nil, fmt.Errorf("commit update: %w", err)
	}
	uc.releaseBlobs(ctx, released)

	saved, err := uc.Messages.FindMessageByID(ctx, uc.DB, message.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload message: %w", err)
	}
	uc.publish(ctx, enum.UpdateMessage, saved)
	return saved, problems.OrNil(), nil
}

func (uc *MessageUsecaseImpl) DeleteMessage(ctx context.Context, cmd req.DeleteMessageCommand) error {
	message, err := uc.findMessage(ctx, cmd.MessageID)
	if err != nil {
		return err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	if err := uc.Files.DeleteFiles(ctx, trx, message.Files); err != nil {
		return fmt.Errorf("delete files: %w", err)
	}
	if err := uc.Messages.DeleteMessage(ctx, trx, message); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if err := trx.Commit().Error; err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	uc.releaseBlobs(ctx, message.Files)
	uc.publish(ctx, enum.DeleteMessage, message)
	return nil
}

func (uc *MessageUsecaseImpl) IsMessageOwner(ctx context.Context, messageID, userID, chatID uint) (bool, error) {
	return uc.Messages.IsOwner(ctx, uc.DB, messageID, userID, chatID)
}

func (uc *MessageUsecaseImpl) findMessage(ctx context.Context, id uint) (*entity.Message, error) {
	message, err := uc.Messages.FindMessageByID(ctx, uc.DB, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	return message, nil
}

// reconcileFiles makes the message own exactly the requested files. Dropped files
// are deleted and returned so their blobs can be released after commit.
func (uc *MessageUsecaseImpl) reconcileFiles(ctx context.Context, trx *gorm.DB, message *entity.Message, requested []uint) (map[string][]uint, []entity.File, error) {
	current := fileIDs(message.Files)
	wanted := uniqueIDs(requested)
	problems := map[string][]uint{}

	var removed []entity.File
	if drop := subtractIDs(current, wanted); len(drop) > 0 {
		found, err := uc.Files.FindInMessage(ctx, trx, message.ID, drop)
		if err != nil {
			uc.Logger.WithError(err).WithField("messageId", message.ID).Warn("Failed to look up files to remove")
			problems["not_deleted_files"] = drop
		} else {
			if missing := subtractIDs(drop, fileIDs(found)); len(missing) > 0 {
				problems["not_deleted_files"] = missing
			}
			if err := uc.Files.DeleteFiles(ctx, trx, found); err != nil {
				return nil, nil, fmt.Errorf("delete files: %w", err)
			}
			removed = found
		}
	}

	if add := subtractIDs(wanted, current); len(add) > 0 {
		found, err := uc.Files.FindFree(ctx, trx, message.ChatID, add)
		if err != nil {
			return nil, nil, fmt.Errorf("find files: %w", err)
		}
		if missing := subtractIDs(add, fileIDs(found)); len(missing) > 0 {
			problems["not_included_files"] = missing
		}
		if err := uc.Files.AttachToMessage(ctx, trx, message.ID, found); err != nil {
			return nil, nil, fmt.Errorf("attach files: %w", err)
		}
	}
	return problems, removed, nil
}

// reconcileArticles only moves links; articles are never deleted here.
func (uc *MessageUsecaseImpl) reconcileArticles(ctx context.Context, trx *gorm.DB, message *entity.Message, requested []uint) (map[string][]uint, error) {
	current := articleIDs(message.Articles)
	wanted := uniqueIDs(requested)
	problems := map[string][]uint{}

	if drop := subtractIDs(current, wanted); len(drop) > 0 {
		found, err := uc.Articles.FindInMessage(ctx, trx, message, drop)
		if err != nil {
			uc.Logger.WithError(err).WithField("messageId", message.ID).Warn("Failed to look up articles to detach")
			problems["not_deleted_articles"] = drop
		} else {
			if missing := subtractIDs(drop, articleIDs(found)); len(missing) > 0 {
				problems["not_deleted_articles"] = missing
			}
			if err := uc.Articles.DetachFromMessage(ctx, trx, message, found); err != nil {
				return nil, fmt.Errorf("detach articles: %w", err)
			}
		}
	}

	if add := subtractIDs(wanted, current); len(add) > 0 {
		found, err := uc.Articles.FindAllByIDs(ctx, trx, add)
		if err != nil {
			return nil, fmt.Errorf("find articles: %w", err)
		}
		if missing := subtractIDs(add, articleIDs(found)); len(missing) > 0 {
			problems["not_included_articles"] = missing
		}
		if err := uc.Articles.AttachToMessage(ctx, trx, message, found); err != nil {
			return nil, fmt.Errorf("attach articles: %w", err)
		}
	}
	return problems, nil
}

func (uc *MessageUsecaseImpl) releaseBlobs(ctx context.Context, files []entity.File) {
	for _, file := range files {
		if err := uc.Blobs.Remove(ctx, file.Path); err != nil {
			uc.Logger.WithError(err).WithField("fileId", file.ID).Warn("Failed to release file blob")
		}
	}
}

func (uc *MessageUsecaseImpl) publish(ctx context.Context, messageType enum.MessageType, message *entity.Message) {
	evt := event.MessageEvent{
		Type:      messageType,
		ChatID:    message.ChatID,
		MessageID: message.ID,
		UserID:    message.UserID,
		At:        time.Now().UTC(),
	}
	if err := uc.Events.Publish(ctx, evt); err != nil {
		uc.Logger.WithError(err).WithField("messageId", message.ID).Warn("Failed to publish message event")
	}
}
