package chat

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miguelmmattar/batepapo-uol-api/model"
	"github.com/miguelmmattar/batepapo-uol-api/storage"
)

func newTestLog(t *testing.T, active ...string) (*MessageLog, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	for _, name := range active {
		err := store.CreateParticipant(context.Background(), model.Participant{
			Name:       name,
			LastStatus: time.Now().UnixMilli(),
		})
		require.NoError(t, err)
	}
	return NewMessageLog(store), store
}

func Test_Append_Assigns_ID_And_Time(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t, "Alice")
	ctx := context.Background()

	// 12-hour clock, the format the room has always shown
	messageLog.now = func() time.Time {
		return time.Date(2026, time.August, 30, 21, 7, 3, 0, time.UTC)
	}

	m, err := messageLog.Append(ctx, "Alice", model.MessageRequest{
		To:   model.BroadcastRecipient,
		Text: "oi galera",
		Type: model.TypeMessage,
	})
	req.NoError(err)
	req.NotEmpty(m.ID)
	req.Equal("Alice", m.From)
	req.Equal("09:07:03", m.Time)
	req.Regexp(regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`), m.Time)

	stored, err := store.GetMessage(ctx, m.ID)
	req.NoError(err)
	req.Equal(m, stored)
}

func Test_Append_Rejects_Invalid_Type(t *testing.T) {
	req := require.New(t)
	messageLog, _ := newTestLog(t, "Alice")

	for _, badType := range []string{"status", "shout", ""} {
		_, err := messageLog.Append(context.Background(), "Alice", model.MessageRequest{
			To:   "Bob",
			Text: "oi",
			Type: badType,
		})
		req.ErrorIs(err, ErrInvalidMessage)
	}
}

func Test_Append_Rejects_Missing_Fields(t *testing.T) {
	req := require.New(t)
	messageLog, _ := newTestLog(t, "Alice")
	ctx := context.Background()

	_, err := messageLog.Append(ctx, "Alice", model.MessageRequest{Text: "oi", Type: model.TypeMessage})
	req.ErrorIs(err, ErrInvalidMessage)

	_, err = messageLog.Append(ctx, "Alice", model.MessageRequest{To: "Bob", Type: model.TypeMessage})
	req.ErrorIs(err, ErrInvalidMessage)
}

func Test_Append_Rejects_Unknown_Sender(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t, "Alice")
	ctx := context.Background()

	_, err := messageLog.Append(ctx, "Ghost", model.MessageRequest{
		To:   model.BroadcastRecipient,
		Text: "boo",
		Type: model.TypeMessage,
	})
	req.ErrorIs(err, ErrUnknownSender)

	_, err = messageLog.Append(ctx, "", model.MessageRequest{
		To:   model.BroadcastRecipient,
		Text: "boo",
		Type: model.TypeMessage,
	})
	req.ErrorIs(err, ErrUnknownSender)

	messages, err := store.ListMessages(ctx)
	req.NoError(err)
	req.Empty(messages)
}

func appendRaw(t *testing.T, store *storage.MemoryStorage, id, from, to, text, msgType string) {
	t.Helper()
	err := store.AppendMessage(context.Background(), model.Message{
		ID:   id,
		From: from,
		To:   to,
		Text: text,
		Type: msgType,
		Time: "12:00:00",
	})
	require.NoError(t, err)
}

func Test_ListVisibleTo_Filters_Per_User(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", model.BroadcastRecipient, "oi todos", model.TypeMessage)
	appendRaw(t, store, "m2", "Alice", "Bob", "oi Bob", model.TypePrivate)
	appendRaw(t, store, "m3", "Bob", "Clara", "oi Clara", model.TypePrivate)
	appendRaw(t, store, "m4", "Alice", "Clara", "segredo", model.TypePrivate)
	appendRaw(t, store, "m5", "Dave", model.BroadcastRecipient, "entra na sala...", model.TypeStatus)

	visible, err := messageLog.ListVisibleTo(ctx, "Bob", 0)
	req.NoError(err)

	var ids []string
	for _, m := range visible {
		ids = append(ids, m.ID)
	}
	// m4 is a private exchange between two other users
	req.Equal([]string{"m1", "m2", "m3", "m5"}, ids)
}

func Test_ListVisibleTo_Limit_Keeps_Most_Recent(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", model.BroadcastRecipient, "um", model.TypeMessage)
	appendRaw(t, store, "m2", "Alice", model.BroadcastRecipient, "dois", model.TypeMessage)
	appendRaw(t, store, "m3", "Alice", model.BroadcastRecipient, "tres", model.TypeMessage)

	visible, err := messageLog.ListVisibleTo(ctx, "Bob", 2)
	req.NoError(err)
	req.Len(visible, 2)
	req.Equal("m2", visible[0].ID)
	req.Equal("m3", visible[1].ID)
}

func Test_Edit_By_Other_User_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", "Bob", "original", model.TypePrivate)

	err := messageLog.Edit(ctx, "m1", "Bob", model.MessageRequest{
		To:   "Bob",
		Text: "alterado",
		Type: model.TypePrivate,
	})
	req.ErrorIs(err, ErrForbidden)

	stored, err := store.GetMessage(ctx, "m1")
	req.NoError(err)
	req.Equal("original", stored.Text)
}

func Test_Edit_By_Sender_Updates_Mutable_Fields_Only(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", "Bob", "original", model.TypePrivate)

	err := messageLog.Edit(ctx, "m1", "Alice", model.MessageRequest{
		To:   model.BroadcastRecipient,
		Text: "agora publico",
		Type: model.TypeMessage,
	})
	req.NoError(err)

	stored, err := store.GetMessage(ctx, "m1")
	req.NoError(err)
	req.Equal(model.BroadcastRecipient, stored.To)
	req.Equal("agora publico", stored.Text)
	req.Equal(model.TypeMessage, stored.Type)
	req.Equal("Alice", stored.From)
	req.Equal("m1", stored.ID)
	req.Equal("12:00:00", stored.Time)
}

func Test_Edit_Unknown_Message(t *testing.T) {
	req := require.New(t)
	messageLog, _ := newTestLog(t)

	err := messageLog.Edit(context.Background(), "missing", "Alice", model.MessageRequest{
		To:   "Bob",
		Text: "oi",
		Type: model.TypePrivate,
	})
	req.ErrorIs(err, ErrNotFound)
}

func Test_Edit_Rejects_Invalid_Payload(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", "Bob", "original", model.TypePrivate)

	err := messageLog.Edit(ctx, "m1", "Alice", model.MessageRequest{
		To:   "Bob",
		Text: "",
		Type: model.TypePrivate,
	})
	req.ErrorIs(err, ErrInvalidMessage)
}

func Test_Delete_By_Other_User_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", "Bob", "oi", model.TypePrivate)

	err := messageLog.Delete(ctx, "m1", "Bob")
	req.ErrorIs(err, ErrForbidden)

	_, err = store.GetMessage(ctx, "m1")
	req.NoError(err)
}

func Test_Delete_By_Sender_Removes_Message(t *testing.T) {
	req := require.New(t)
	messageLog, store := newTestLog(t)
	ctx := context.Background()

	appendRaw(t, store, "m1", "Alice", "Bob", "oi", model.TypePrivate)

	req.NoError(messageLog.Delete(ctx, "m1", "Alice"))

	_, err := store.GetMessage(ctx, "m1")
	req.ErrorIs(err, storage.ErrNotFound)

	err = messageLog.Delete(ctx, "m1", "Alice")
	req.ErrorIs(err, ErrNotFound)
}
