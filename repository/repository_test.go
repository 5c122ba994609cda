package repository

import (
	"college-chat/entity"
	"college-chat/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepositoryMembership(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	bob := testutil.SeedUser(t, db, "Bob", "Reed")
	first := testutil.SeedChat(t, db, "Algebra", alice, bob)
	second := testutil.SeedChat(t, db, "Physics", alice)

	repo := NewChatRepository()

	ids, err := repo.ListChatIDsByUser(ctx, db, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, second.ID}, ids)

	ids, err = repo.ListChatIDsByUser(ctx, db, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, ids)

	member, err := repo.IsUserInChat(ctx, db, second.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, member)

	exists, err := repo.Exists(ctx, db, second.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, db, 999)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindChatByID(ctx, db, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	chats, err := repo.FindAllByUserID(ctx, db, alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "Algebra", chats[0].Title)
}

func TestChatRepositoryCreateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	article := testutil.SeedArticle(t, db, "Limits")

	repo := NewChatRepository()
	chat := &entity.Chat{Title: "Calculus"}
	require.NoError(t, repo.CreateChatWithMembers(ctx, db, chat, []entity.ChatUser{{UserID: alice.ID}}))
	assert.NotZero(t, chat.ID)

	taken, err := repo.ExistsByTitle(ctx, db, "Calculus")
	require.NoError(t, err)
	assert.True(t, taken)

	message := testutil.SeedMessage(t, db, chat.ID, alice.ID, "hi")
	require.NoError(t, NewArticleRepository().AttachToMessage(ctx, db, message, []entity.Article{*article}))

	require.NoError(t, repo.DeleteChat(ctx, db, chat))

	var count int64
	db.Model(&entity.Message{}).Where("chat_id = ?", chat.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&entity.ChatUser{}).Where("chat_id = ?", chat.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&entity.Article{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Table(db.NamingStrategy.JoinTableName("message_articles")).Count(&count)
	assert.Zero(t, count)
}

func TestChatRepositoryLastRead(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	chat := testutil.SeedChat(t, db, "Algebra", alice)
	repo := NewChatRepository()

	member, err := repo.FindMembership(ctx, db, chat.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, member.LastRead)

	require.NoError(t, repo.UpdateLastRead(ctx, db, member, 12))

	member, err = repo.FindMembership(ctx, db, chat.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, member.LastRead)
	assert.Equal(t, uint(12), *member.LastRead)

	_, err = repo.FindMembership(ctx, db, chat.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepositoryOwnershipAndHistory(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	bob := testutil.SeedUser(t, db, "Bob", "Reed")
	chat := testutil.SeedChat(t, db, "Algebra", alice, bob)
	other := testutil.SeedChat(t, db, "Physics", alice)

	repo := NewMessageRepository()
	var sent []*entity.Message
	for _, text := range []string{"one", "two", "three"} {
		sent = append(sent, testutil.SeedMessage(t, db, chat.ID, alice.ID, text))
	}

	owner, err := repo.IsOwner(ctx, db, sent[0].ID, alice.ID, chat.ID)
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = repo.IsOwner(ctx, db, sent[0].ID, bob.ID, chat.ID)
	require.NoError(t, err)
	assert.False(t, owner)

	owner, err = repo.IsOwner(ctx, db, sent[0].ID, alice.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, owner)

	page, err := repo.FindHistory(ctx, db, chat.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Text)
	assert.Equal(t, "Alice", page[0].User.FirstName)

	page, err = repo.FindHistory(ctx, db, chat.ID, page[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Text)

	page, err = repo.FindNewer(ctx, db, chat.ID, sent[0].ID, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Text)
	assert.Equal(t, "two", page[1].Text)

	last, err := repo.FindLastInChat(ctx, db, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, sent[2].ID, last.ID)

	_, err = repo.FindLastInChat(ctx, db, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepositoryFindAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	chat := testutil.SeedChat(t, db, "Algebra", alice)
	message := testutil.SeedMessage(t, db, chat.ID, alice.ID, "notes")
	file := testutil.SeedFile(t, db, chat.ID, "notes.pdf", &message.ID)
	article := testutil.SeedArticle(t, db, "Vectors")
	require.NoError(t, NewArticleRepository().AttachToMessage(ctx, db, message, []entity.Article{*article}))

	repo := NewMessageRepository()
	found, err := repo.FindMessageByID(ctx, db, message.ID)
	require.NoError(t, err)
	require.Len(t, found.Files, 1)
	assert.Equal(t, file.ID, found.Files[0].ID)
	require.Len(t, found.Articles, 1)
	assert.Equal(t, "Vectors", found.Articles[0].Title)

	found.Text = "edited"
	require.NoError(t, repo.UpdateText(ctx, db, found))

	require.NoError(t, NewFileRepository().DeleteFiles(ctx, db, found.Files))
	require.NoError(t, repo.DeleteMessage(ctx, db, found))

	_, err = repo.FindMessageByID(ctx, db, message.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	db.Model(&entity.Article{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFileRepositoryFindFreeAndAttach(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	chat := testutil.SeedChat(t, db, "Algebra", alice)
	other := testutil.SeedChat(t, db, "Physics", alice)
	message := testutil.SeedMessage(t, db, chat.ID, alice.ID, "files")

	free := testutil.SeedFile(t, db, chat.ID, "free.png", nil)
	taken := testutil.SeedFile(t, db, chat.ID, "taken.png", &message.ID)
	foreign := testutil.SeedFile(t, db, other.ID, "foreign.png", nil)

	repo := NewFileRepository()
	files, err := repo.FindFree(ctx, db, chat.ID, []uint{free.ID, taken.ID, foreign.ID, 999})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, free.ID, files[0].ID)

	require.NoError(t, repo.AttachToMessage(ctx, db, message.ID, files))

	attached, err := repo.FindByMessage(ctx, db, message.ID)
	require.NoError(t, err)
	assert.Len(t, attached, 2)

	inMessage, err := repo.FindInMessage(ctx, db, message.ID, []uint{free.ID, foreign.ID})
	require.NoError(t, err)
	require.Len(t, inMessage, 1)
	assert.Equal(t, free.ID, inMessage[0].ID)

	byChat, err := repo.FindByChat(ctx, db, other.ID)
	require.NoError(t, err)
	assert.Len(t, byChat, 1)
}

func TestArticleRepositoryAttachDetach(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	alice := testutil.SeedUser(t, db, "Alice", "Moss")
	chat := testutil.SeedChat(t, db, "Algebra", alice)
	message := testutil.SeedMessage(t, db, chat.ID, alice.ID, "reading")
	first := testutil.SeedArticle(t, db, "Sets")
	second := testutil.SeedArticle(t, db, "Groups")

	repo := NewArticleRepository()
	found, err := repo.FindAllByIDs(ctx, db, []uint{first.ID, second.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 2)

	require.NoError(t, repo.AttachToMessage(ctx, db, message, found))

	linked, err := repo.FindInMessage(ctx, db, message, []uint{second.ID, 999})
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, second.ID, linked[0].ID)

	require.NoError(t, repo.DetachFromMessage(ctx, db, message, linked))

	remaining, err := repo.FindByMessage(ctx, db, message)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)

	var count int64
	db.Model(&entity.Article{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
