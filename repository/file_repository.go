package repository

import (
	"college-chat/entity"
	"context"

	"gorm.io/gorm"
)

type FileRepository struct {
	Repository[entity.File]
}

func NewFileRepository() *FileRepository {
	return &FileRepository{}
}

// FindFree returns the files of chatID among ids that no message owns yet.
func (repository FileRepository) FindFree(ctx context.Context, db *gorm.DB, chatID uint, ids []uint) ([]entity.File, error) {
	var files []entity.File
	if len(ids) == 0 {
		return files, nil
	}
	err := db.WithContext(ctx).
		Where("id IN ? AND chat_id = ? AND message_id IS NULL", ids, chatID).
		Order("id").
		Find(&files).Error
	return files, err
}

func (repository FileRepository) AttachToMessage(ctx context.Context, db *gorm.DB, messageID uint, files []entity.File) error {
	if len(files) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(files))
	for i := range files {
		ids = append(ids, files[i].ID)
		files[i].MessageID = &messageID
	}
	return db.WithContext(ctx).
		Model(&entity.File{}).
		Where("id IN ?", ids).
		Update("message_id", messageID).Error
}

func (repository FileRepository) FindByMessage(ctx context.Context, db *gorm.DB, messageID uint) ([]entity.File, error) {
	var files []entity.File
	err := db.WithContext(ctx).Where("message_id = ?", messageID).Order("id").Find(&files).Error
	return files, err
}

func (repository FileRepository) FindInMessage(ctx context.Context, db *gorm.DB, messageID uint, ids []uint) ([]entity.File, error) {
	var files []entity.File
	if len(ids) == 0 {
		return files, nil
	}
	err := db.WithContext(ctx).
		Where("message_id = ? AND id IN ?", messageID, ids).
		Order("id").
		Find(&files).Error
	return files, err
}

func (repository FileRepository) FindByChat(ctx context.Context, db *gorm.DB, chatID uint) ([]entity.File, error) {
	var files []entity.File
	err := db.WithContext(ctx).Where("chat_id = ?", chatID).Order("id").Find(&files).Error
	return files, err
}

func (repository FileRepository) DeleteFiles(ctx context.Context, db *gorm.DB, files []entity.File) error {
	if len(files) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(files))
	for _, file := range files {
		ids = append(ids, file.ID)
	}
	return db.WithContext(ctx).Where("id IN ?", ids).Delete(&entity.File{}).Error
}
