package entity

import "college-chat/enum"

type File struct {
	BaseEntity
	FileName  string        `json:"fileName" gorm:"type:varchar(255)"`
	FileSize  int64         `json:"fileSize"`
	Path      string        `json:"path" gorm:"type:varchar(255);not null"`
	FileType  enum.FileType `json:"fileType" gorm:"type:varchar(3);default:'DOC'"`
	ChatID    uint          `json:"chatId" gorm:"not null;index"`
	MessageID *uint         `json:"messageId" gorm:"index"`
}
