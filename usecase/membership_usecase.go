package usecase

import "context"

// MembershipUsecase answers room questions for the realtime layer. Storage
// failures are logged and read as absence.
type MembershipUsecase interface {
	ListRooms(ctx context.Context, userID uint) []uint
	IsMember(ctx context.Context, userID, chatID uint) bool
	ChatExists(ctx context.Context, chatID uint) bool
}
