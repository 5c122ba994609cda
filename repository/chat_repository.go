package repository

import (
	"college-chat/entity"
	"context"

	"gorm.io/gorm"
)

type ChatRepository struct {
	Repository[entity.Chat]
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{}
}

func (repository ChatRepository) FindChatByID(ctx context.Context, db *gorm.DB, id uint) (*entity.Chat, error) {
	var chat entity.Chat
	if err := repository.FindById(ctx, db, &chat, id); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (repository ChatRepository) Exists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Chat{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (repository ChatRepository) ExistsByTitle(ctx context.Context, db *gorm.DB, title string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Chat{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

func (repository ChatRepository) CreateChatWithMembers(ctx context.Context, db *gorm.DB, chat *entity.Chat, members []entity.ChatUser) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Messages", "Files").Create(chat).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		for i := range members {
			members[i].ChatID = chat.ID
		}
		return tx.Omit("Chat", "User").Create(&members).Error
	})
}

// DeleteChat removes the chat with its memberships, messages and their article links.
// Files are removed by the caller first so their blobs can be released.
func (repository ChatRepository) DeleteChat(ctx context.Context, db *gorm.DB, chat *entity.Chat) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&entity.Message{}).Select("id").Where("chat_id = ?", chat.ID)
		joinTable := tx.NamingStrategy.JoinTableName("message_articles")
		if err := tx.Exec("DELETE FROM "+joinTable+" WHERE message_id IN (?)", messageIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&entity.ChatUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}

func (repository ChatRepository) ListChatIDsByUser(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&entity.ChatUser{}).
		Where("user_id = ?", userID).
		Order("chat_id").
		Pluck("chat_id", &ids).Error
	return ids, err
}

func (repository ChatRepository) FindAllByUserID(ctx context.Context, db *gorm.DB, userID uint) ([]entity.Chat, error) {
	var chats []entity.Chat
	err := db.WithContext(ctx).
		Joins("JOIN t_chat_user cu ON cu.chat_id = t_chat.id").
		Where("cu.user_id = ?", userID).
		Order("t_chat.id").
		Find(&chats).Error
	return chats, err
}

func (repository ChatRepository) IsUserInChat(ctx context.Context, db *gorm.DB, chatID, userID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (repository ChatRepository) FindMembership(ctx context.Context, db *gorm.DB, chatID, userID uint) (*entity.ChatUser, error) {
	var member entity.ChatUser
	err := db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Take(&member).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &member, nil
}

func (repository ChatRepository) UpdateLastRead(ctx context.Context, db *gorm.DB, member *entity.ChatUser, messageID uint) error {
	member.LastRead = &messageID
	return db.WithContext(ctx).
		Model(&entity.ChatUser{}).
		Where("id = ?", member.ID).
		Update("last_read", messageID).Error
}
