package req

const (
	DefaultHistoryLimit = 15
	MaxHistoryLimit     = 100
)

// HistoryRequest pages older messages with Cursor or newer ones with After.
type HistoryRequest struct {
	Cursor uint `query:"cursor"`
	After  uint `query:"after" validate:"excluded_with=Cursor"`
	Limit  int  `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (r HistoryRequest) PageSize() int {
	if r.Limit <= 0 {
		return DefaultHistoryLimit
	}
	if r.Limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return r.Limit
}

type CreateChatRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Cover     string `json:"cover" validate:"omitempty,max=255"`
	MemberIDs []uint `json:"member_ids" validate:"dive,gt=0"`
}
