package enum

import "strings"

type MessageType string

const (
	NewMessage    MessageType = "new_message"
	UpdateMessage MessageType = "update_message"
	DeleteMessage MessageType = "delete_message"
)

var AllowedMessageTypes = []MessageType{NewMessage, UpdateMessage, DeleteMessage}

func (t MessageType) Valid() bool {
	for _, allowed := range AllowedMessageTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// AllowedMessageTypesString renders the allowed types the way error frames show them.
func AllowedMessageTypesString() string {
	names := make([]string, 0, len(AllowedMessageTypes))
	for _, t := range AllowedMessageTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
