package res

import "college-chat/entity"

type LastMessageUser struct {
	Avatar *string `json:"avatar"`
}

type LastMessageResponse struct {
	ID   uint            `json:"id"`
	Text string          `json:"text"`
	Date string          `json:"date"`
	User LastMessageUser `json:"user"`
}

type ChatResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Cover       *string              `json:"cover"`
	LastMessage *LastMessageResponse `json:"last_message"`
}

type HistoryResponse struct {
	Next     *uint             `json:"next"`
	Previous *uint             `json:"previous"`
	Results  []MessageResponse `json:"results"`
	LastRead *uint             `json:"last_read"`
}

func NewChatResponse(chat *entity.Chat, last *entity.Message, mediaURL string) ChatResponse {
	response := ChatResponse{
		ID:    chat.ID,
		Title: chat.Title,
		Cover: optionalMediaLink(mediaURL, chat.Cover),
	}
	if last != nil {
		response.LastMessage = &LastMessageResponse{
			ID:   last.ID,
			Text: last.Text,
			Date: last.Date.UTC().Format(DateFormat),
			User: LastMessageUser{Avatar: optionalMediaLink(mediaURL, last.User.Avatar)},
		}
	}
	return response
}
