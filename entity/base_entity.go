package entity

import (
	"time"

	"gorm.io/gorm/schema"
)

// NamingStrategy is shared by the postgres connection and the test databases so
// table names stay identical everywhere.
var NamingStrategy = schema.NamingStrategy{
	TablePrefix:   "t_",
	SingularTable: true,
}

type BaseEntity struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Article{},
		&Chat{},
		&ChatUser{},
		&Message{},
		&File{},
	}
}
