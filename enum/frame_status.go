package enum

type FrameStatus string

const (
	FrameSuccess FrameStatus = "success"
	FrameError   FrameStatus = "error"
)
