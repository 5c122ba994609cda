package res

import (
	"college-chat/enum"
	"encoding/json"
)

// FrameResponse is every outbound websocket frame.
type FrameResponse struct {
	Status  enum.FrameStatus `json:"status"`
	Message any              `json:"message"`
}

func SuccessFrame(payload any) ([]byte, error) {
	return json.Marshal(FrameResponse{Status: enum.FrameSuccess, Message: payload})
}

func ErrorFrame(payload any) ([]byte, error) {
	return json.Marshal(FrameResponse{Status: enum.FrameError, Message: payload})
}
