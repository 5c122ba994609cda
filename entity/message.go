package entity

import "time"

type Message struct {
	BaseEntity
	UserID uint      `json:"userId" gorm:"not null;index"`
	ChatID uint      `json:"chatId" gorm:"not null;index"`
	Text   string    `json:"text" gorm:"type:TEXT"`
	Date   time.Time `json:"date" gorm:"index"`

	User     User      `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Chat     Chat      `json:"-" gorm:"foreignKey:ChatID;references:ID"`
	Files    []File    `json:"-" gorm:"foreignKey:MessageID"`
	Articles []Article `json:"-" gorm:"many2many:message_articles"`
}
