package usecase

import (
	"college-chat/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrChatNotFound    = errors.New("chat not found")
	ErrChatTitleTaken  = errors.New("chat title already taken")
	ErrNotMember       = errors.New("user is not a member of this chat")
)

// Problems reports attachment failures alongside an otherwise successful command.
type Problems map[string]any

func (p Problems) OrNil() Problems {
	if len(p) == 0 {
		return nil
	}
	return p
}

type ChatStore interface {
	FindChatByID(ctx context.Context, db *gorm.DB, id uint) (*entity.Chat, error)
	Exists(ctx context.Context, db *gorm.DB, id uint) (bool, error)
	ExistsByTitle(ctx context.Context, db *gorm.DB, title string) (bool, error)
	CreateChatWithMembers(ctx context.Context, db *gorm.DB, chat *entity.Chat, members []entity.ChatUser) error
	DeleteChat(ctx context.Context, db *gorm.DB, chat *entity.Chat) error
	ListChatIDsByUser(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error)
	FindAllByUserID(ctx context.Context, db *gorm.DB, userID uint) ([]entity.Chat, error)
	IsUserInChat(ctx context.Context, db *gorm.DB, chatID, userID uint) (bool, error)
	FindMembership(ctx context.Context, db *gorm.DB, chatID, userID uint) (*entity.ChatUser, error)
	UpdateLastRead(ctx context.Context, db *gorm.DB, member *entity.ChatUser, messageID uint) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, db *gorm.DB, message *entity.Message) error
	UpdateText(ctx context.Context, db *gorm.DB, message *entity.Message) error
	FindMessageByID(ctx context.Context, db *gorm.DB, id uint) (*entity.Message, error)
	IsOwner(ctx context.Context, db *gorm.DB, messageID, userID, chatID uint) (bool, error)
	DeleteMessage(ctx context.Context, db *gorm.DB, message *entity.Message) error
	FindHistory(ctx context.Context, db *gorm.DB, chatID, cursor uint, limit int) ([]entity.Message, error)
	FindNewer(ctx context.Context, db *gorm.DB, chatID, after uint, limit int) ([]entity.Message, error)
	FindLastInChat(ctx context.Context, db *gorm.DB, chatID uint) (*entity.Message, error)
}

type FileStore interface {
	FindFree(ctx context.Context, db *gorm.DB, chatID uint, ids []uint) ([]entity.File, error)
	AttachToMessage(ctx context.Context, db *gorm.DB, messageID uint, files []entity.File) error
	FindByMessage(ctx context.Context, db *gorm.DB, messageID uint) ([]entity.File, error)
	FindInMessage(ctx context.Context, db *gorm.DB, messageID uint, ids []uint) ([]entity.File, error)
	FindByChat(ctx context.Context, db *gorm.DB, chatID uint) ([]entity.File, error)
	DeleteFiles(ctx context.Context, db *gorm.DB, files []entity.File) error
}

type ArticleStore interface {
	FindAllByIDs(ctx context.Context, db *gorm.DB, ids []uint) ([]entity.Article, error)
	AttachToMessage(ctx context.Context, db *gorm.DB, message *entity.Message, articles []entity.Article) error
	FindInMessage(ctx context.Context, db *gorm.DB, message *entity.Message, ids []uint) ([]entity.Article, error)
	FindByMessage(ctx context.Context, db *gorm.DB, message *entity.Message) ([]entity.Article, error)
	DetachFromMessage(ctx context.Context, db *gorm.DB, message *entity.Message, articles []entity.Article) error
}
