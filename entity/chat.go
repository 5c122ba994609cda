package entity

type Chat struct {
	BaseEntity
	Title string `json:"title" gorm:"type:varchar(255);uniqueIndex;not null"`
	Cover string `json:"cover" gorm:"type:varchar(255)"`

	Members  []ChatUser `json:"-" gorm:"foreignKey:ChatID"`
	Messages []Message  `json:"-" gorm:"foreignKey:ChatID"`
	Files    []File     `json:"-" gorm:"foreignKey:ChatID"`
}

// ChatUser is the membership edge between a chat and a user.
type ChatUser struct {
	ID       uint  `gorm:"primaryKey;autoIncrement"`
	ChatID   uint  `gorm:"not null;uniqueIndex:idx_chat_user"`
	UserID   uint  `gorm:"not null;uniqueIndex:idx_chat_user;index"`
	LastRead *uint `gorm:"default:null"`

	Chat Chat `gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}
