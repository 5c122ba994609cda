package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MembershipUsecaseImpl struct {
	*gorm.DB
	*logrus.Logger
	Chats ChatStore
}

func NewMembershipUsecase(db *gorm.DB, logger *logrus.Logger, chats ChatStore) *MembershipUsecaseImpl {
	return &MembershipUsecaseImpl{DB: db, Logger: logger, Chats: chats}
}

func (uc *MembershipUsecaseImpl) ListRooms(ctx context.Context, userID uint) []uint {
	ids, err := uc.Chats.ListChatIDsByUser(ctx, uc.DB, userID)
	if err != nil {
		uc.Logger.WithError(err).WithField("userId", userID).Error("Failed to list user chats")
		return nil
	}
	return ids
}

func (uc *MembershipUsecaseImpl) IsMember(ctx context.Context, userID, chatID uint) bool {
	member, err := uc.Chats.IsUserInChat(ctx, uc.DB, chatID, userID)
	if err != nil {
		uc.Logger.WithError(err).WithFields(logrus.Fields{"userId": userID, "chatId": chatID}).Error("Failed to verify participant")
		return false
	}
	return member
}

func (uc *MembershipUsecaseImpl) ChatExists(ctx context.Context, chatID uint) bool {
	exists, err := uc.Chats.Exists(ctx, uc.DB, chatID)
	if err != nil {
		uc.Logger.WithError(err).WithField("chatId", chatID).Error("Failed to find chat")
		return false
	}
	return exists
}
