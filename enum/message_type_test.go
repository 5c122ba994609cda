package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageTypeValid(t *testing.T) {
	assert.True(t, NewMessage.Valid())
	assert.True(t, UpdateMessage.Valid())
	assert.True(t, DeleteMessage.Valid())
	assert.False(t, MessageType("edit_message").Valid())
	assert.False(t, MessageType("").Valid())
}

func TestAllowedMessageTypesString(t *testing.T) {
	assert.Equal(t, "new_message, update_message, delete_message", AllowedMessageTypesString())
}
