package testutil

import (
	"college-chat/entity"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB returns a migrated in-memory database private to the test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: entity.NamingStrategy,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	conn, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would get its own empty :memory: database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.AutoMigrate(entity.All()...))
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, first, last string) *entity.User {
	t.Helper()
	user := &entity.User{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s.%d@college.test", first, last, time.Now().UnixNano()),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedChat(t *testing.T, db *gorm.DB, title string, members ...*entity.User) *entity.Chat {
	t.Helper()
	chat := &entity.Chat{Title: title}
	require.NoError(t, db.Omit("Members", "Messages", "Files").Create(chat).Error)
	for _, member := range members {
		require.NoError(t, db.Omit("Chat", "User").Create(&entity.ChatUser{ChatID: chat.ID, UserID: member.ID}).Error)
	}
	return chat
}

func SeedFile(t *testing.T, db *gorm.DB, chatID uint, name string, messageID *uint) *entity.File {
	t.Helper()
	file := &entity.File{
		FileName:  name,
		FileSize:  1024,
		Path:      "chats/" + name,
		ChatID:    chatID,
		MessageID: messageID,
	}
	require.NoError(t, db.Create(file).Error)
	return file
}

func SeedArticle(t *testing.T, db *gorm.DB, title string) *entity.Article {
	t.Helper()
	article := &entity.Article{Title: title, Text: title + " body"}
	require.NoError(t, db.Create(article).Error)
	return article
}

func SeedMessage(t *testing.T, db *gorm.DB, chatID, userID uint, text string) *entity.Message {
	t.Helper()
	message := &entity.Message{ChatID: chatID, UserID: userID, Text: text, Date: time.Now().UTC()}
	require.NoError(t, db.Omit("User", "Chat", "Files", "Articles").Create(message).Error)
	return message
}
