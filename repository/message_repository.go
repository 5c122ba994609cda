package repository

import (
	"college-chat/entity"
	"context"

	"gorm.io/gorm"
)

type MessageRepository struct {
	Repository[entity.Message]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// CreateMessage inserts the row only; attachments are linked separately.
func (repository MessageRepository) CreateMessage(ctx context.Context, db *gorm.DB, message *entity.Message) error {
	return db.WithContext(ctx).Omit("User", "Chat", "Files", "Articles").Create(message).Error
}

func (repository MessageRepository) UpdateText(ctx context.Context, db *gorm.DB, message *entity.Message) error {
	return db.WithContext(ctx).
		Model(message).
		Omit("User", "Chat", "Files", "Articles").
		Update("text", message.Text).Error
}

func (repository MessageRepository) FindMessageByID(ctx context.Context, db *gorm.DB, id uint) (*entity.Message, error) {
	var message entity.Message
	err := withRelations(db.WithContext(ctx)).Where("id = ?", id).Take(&message).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

func (repository MessageRepository) IsOwner(ctx context.Context, db *gorm.DB, messageID, userID, chatID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("id = ? AND user_id = ? AND chat_id = ?", messageID, userID, chatID).
		Count(&count).Error
	return count > 0, err
}

// DeleteMessage drops the article links and the row. Files are handled by the caller.
func (repository MessageRepository) DeleteMessage(ctx context.Context, db *gorm.DB, message *entity.Message) error {
	if err := db.WithContext(ctx).Model(message).Association("Articles").Clear(); err != nil {
		return err
	}
	return repository.Delete(ctx, db, message)
}

// FindHistory pages a chat newest first. A zero cursor starts from the newest message.
func (repository MessageRepository) FindHistory(ctx context.Context, db *gorm.DB, chatID, cursor uint, limit int) ([]entity.Message, error) {
	var messages []entity.Message
	query := withRelations(db.WithContext(ctx)).Where("chat_id = ?", chatID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// FindNewer returns up to limit messages just after the given id, newest first.
func (repository MessageRepository) FindNewer(ctx context.Context, db *gorm.DB, chatID, after uint, limit int) ([]entity.Message, error) {
	var messages []entity.Message
	err := withRelations(db.WithContext(ctx)).
		Where("chat_id = ? AND id > ?", chatID, after).
		Order("id ASC").
		Limit(limit).
		Find(&messages).Error
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, err
}

func (repository MessageRepository) FindLastInChat(ctx context.Context, db *gorm.DB, chatID uint) (*entity.Message, error) {
	var message entity.Message
	err := db.WithContext(ctx).
		Preload("User").
		Where("chat_id = ?", chatID).
		Order("id DESC").
		Take(&message).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}
