package req

import (
	"bytes"
	"college-chat/enum"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FrameError is a rejected inbound frame, rendered as the payload of an error frame.
type FrameError map[string]string

func (e FrameError) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

func NoMessageSent() FrameError {
	return FrameError{"message": "No message sent"}
}

func NoChatID() FrameError {
	return FrameError{"chat": "No chat_id specified"}
}

func NotMember() FrameError {
	return FrameError{"chat_id": "You are not member of this chat"}
}

func ChatNotFound(chatID uint) FrameError {
	return FrameError{"chat_id": fmt.Sprintf("Chat with id %d not found", chatID)}
}

func NotOwner() FrameError {
	return FrameError{"message_id": "You are trying to modify not your message"}
}

func MessageNotFound() FrameError {
	return FrameError{"message": "No message with this id found"}
}

func InternalError() FrameError {
	return FrameError{"message": "Internal error"}
}

// Command is one of NewMessageCommand, UpdateMessageCommand or DeleteMessageCommand.
type Command interface {
	Chat() uint
	Type() enum.MessageType
	sealed()
}

type NewMessageCommand struct {
	ChatID uint
	Text   string
	// nil when the frame carried no list
	Files        []uint
	Articles     []uint
	ClientSideID json.RawMessage
}

type UpdateMessageCommand struct {
	ChatID    uint
	MessageID uint
	Text      *string
	Files     []uint
	Articles  []uint
}

type DeleteMessageCommand struct {
	ChatID    uint
	MessageID uint
}

func (c NewMessageCommand) Chat() uint             { return c.ChatID }
func (c NewMessageCommand) Type() enum.MessageType { return enum.NewMessage }
func (NewMessageCommand) sealed()                  {}

func (c UpdateMessageCommand) Chat() uint             { return c.ChatID }
func (c UpdateMessageCommand) Type() enum.MessageType { return enum.UpdateMessage }
func (UpdateMessageCommand) sealed()                  {}

func (c DeleteMessageCommand) Chat() uint             { return c.ChatID }
func (c DeleteMessageCommand) Type() enum.MessageType { return enum.DeleteMessage }
func (DeleteMessageCommand) sealed()                  {}

// MessageRequest is the "message" object of an inbound frame. Fields are decoded
// lazily so each validation step can report its own error in order.
type MessageRequest struct {
	fields map[string]json.RawMessage
}

func DecodeMessageRequest(data []byte) (*MessageRequest, error) {
	var frame map[string]json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || frame == nil {
		return nil, NoMessageSent()
	}
	raw, ok := frame["message"]
	if !ok {
		return nil, NoMessageSent()
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, NoMessageSent()
	}
	return &MessageRequest{fields: fields}, nil
}

// ChatID accepts a positive integer or its decimal string form.
func (r *MessageRequest) ChatID() (uint, error) {
	raw, ok := r.fields["chat_id"]
	if !ok {
		return 0, NoChatID()
	}
	id, ok := parseID(raw, true)
	if !ok {
		return 0, NoChatID()
	}
	return id, nil
}

func (r *MessageRequest) MessageType() (enum.MessageType, error) {
	raw, ok := r.fields["message_type"]
	if !ok || isNull(raw) {
		return "", FrameError{"message_type": "message_type not specified"}
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil || !enum.MessageType(value).Valid() {
		return "", FrameError{"message_type": "Wrong message type. Allowed types: " + enum.AllowedMessageTypesString()}
	}
	return enum.MessageType(value), nil
}

// Command builds the typed command once chat_id and message_type are known to be valid.
// Update and delete read message_id first; delete ignores every other field.
func (r *MessageRequest) Command(chatID uint, messageType enum.MessageType) (Command, error) {
	switch messageType {
	case enum.NewMessage:
		files, articles, text, err := r.payload()
		if err != nil {
			return nil, err
		}
		cmd := NewMessageCommand{ChatID: chatID, Files: files, Articles: articles}
		if text != nil {
			cmd.Text = *text
		}
		if raw, ok := r.fields["client_side_id"]; ok {
			cmd.ClientSideID = raw
		}
		return cmd, nil
	case enum.UpdateMessage:
		messageID, err := r.MessageID()
		if err != nil {
			return nil, err
		}
		files, articles, text, err := r.payload()
		if err != nil {
			return nil, err
		}
		return UpdateMessageCommand{ChatID: chatID, MessageID: messageID, Text: text, Files: files, Articles: articles}, nil
	case enum.DeleteMessage:
		messageID, err := r.MessageID()
		if err != nil {
			return nil, err
		}
		return DeleteMessageCommand{ChatID: chatID, MessageID: messageID}, nil
	}
	return nil, FrameError{"message_type": "Wrong message type. Allowed types: " + enum.AllowedMessageTypesString()}
}

func (r *MessageRequest) payload() (files, articles []uint, text *string, err error) {
	if files, err = r.idList("files"); err != nil {
		return nil, nil, nil, err
	}
	if articles, err = r.idList("articles"); err != nil {
		return nil, nil, nil, err
	}
	if text, err = r.text(); err != nil {
		return nil, nil, nil, err
	}
	return files, articles, text, nil
}

func (r *MessageRequest) text() (*string, error) {
	raw, ok := r.fields["text"]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, FrameError{"text": "Text must be a string"}
	}
	return &text, nil
}

// MessageID reads the id an update or delete targets; it must be a JSON integer.
func (r *MessageRequest) MessageID() (uint, error) {
	raw, ok := r.fields["message_id"]
	if !ok {
		return 0, FrameError{"message_id": "No message id specified or specified wrong type"}
	}
	id, ok := parseID(raw, false)
	if !ok {
		return 0, FrameError{"message_id": "No message id specified or specified wrong type"}
	}
	return id, nil
}

func (r *MessageRequest) idList(field string) ([]uint, error) {
	raw, ok := r.fields[field]
	if !ok {
		return nil, nil
	}
	invalid := FrameError{field: "Ids must be integers"}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, invalid
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		id, ok := parseID(item, true)
		if !ok {
			return nil, invalid
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseID reads a positive integer id, optionally also from a decimal string.
func parseID(raw json.RawMessage, allowString bool) (uint, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return 0, false
	}

	var text string
	switch v := value.(type) {
	case json.Number:
		text = v.String()
	case string:
		if !allowString {
			return 0, false
		}
		text = strings.TrimSpace(v)
	default:
		return 0, false
	}

	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
