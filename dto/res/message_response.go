package res

import (
	"college-chat/entity"
	"college-chat/enum"
	"encoding/json"
	"strings"
)

// DateFormat is RFC 3339 with microseconds.
const DateFormat = "2006-01-02T15:04:05.000000Z07:00"

type FileResponse struct {
	ID       uint          `json:"id"`
	File     string        `json:"file"`
	FileName string        `json:"file_name"`
	FileSize int64         `json:"file_size"`
	FileType enum.FileType `json:"file_type"`
}

type ArticleResponse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type UserResponse struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Avatar    *string `json:"avatar"`
}

type MessageResponse struct {
	ID           uint              `json:"id"`
	ChatID       uint              `json:"chat_id"`
	Files        []FileResponse    `json:"files"`
	Articles     []ArticleResponse `json:"articles"`
	Text         string            `json:"text"`
	Date         string            `json:"date"`
	User         UserResponse      `json:"user"`
	MessageType  enum.MessageType  `json:"message_type,omitempty"`
	Errors       map[string]any    `json:"errors,omitempty"`
	ClientSideID json.RawMessage   `json:"client_side_id,omitempty"`
}

type DeletedMessageResponse struct {
	MessageID   uint             `json:"message_id"`
	ChatID      uint             `json:"chat_id"`
	MessageType enum.MessageType `json:"message_type"`
}

func NewMessageResponse(message *entity.Message, mediaURL string) MessageResponse {
	files := make([]FileResponse, 0, len(message.Files))
	for _, file := range message.Files {
		files = append(files, FileResponse{
			ID:       file.ID,
			File:     MediaLink(mediaURL, file.Path),
			FileName: file.FileName,
			FileSize: file.FileSize,
			FileType: file.FileType,
		})
	}
	articles := make([]ArticleResponse, 0, len(message.Articles))
	for _, article := range message.Articles {
		articles = append(articles, ArticleResponse{ID: article.ID, Title: article.Title})
	}

	return MessageResponse{
		ID:       message.ID,
		ChatID:   message.ChatID,
		Files:    files,
		Articles: articles,
		Text:     message.Text,
		Date:     message.Date.UTC().Format(DateFormat),
		User:     NewUserResponse(&message.User, mediaURL),
	}
}

func NewUserResponse(user *entity.User, mediaURL string) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    optionalMediaLink(mediaURL, user.Avatar),
	}
}

// MediaLink turns a stored path into an absolute URL under mediaURL.
func MediaLink(mediaURL, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(mediaURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func optionalMediaLink(mediaURL, path string) *string {
	if path == "" {
		return nil
	}
	link := MediaLink(mediaURL, path)
	return &link
}
