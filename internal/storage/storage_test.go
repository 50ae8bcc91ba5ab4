package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-assist/internal/model"
)

func newUser(id, email string) *model.UserRecord {
	return &model.UserRecord{
		User:         model.User{UserID: id, FullName: "Officer " + id, Email: email},
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
}

func newDraft(id, owner string, updated time.Time) *model.Draft {
	return &model.Draft{
		NarrativeFields: model.NarrativeFields{
			UserID:   owner,
			DraftID:  id,
			Location: "Main St",
			Exhibits: []string{"knife"},
		},
		Status:    "draft",
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestMemoryUsers(t *testing.T) {
	s := NewMemoryStorage()

	require.NoError(t, s.CreateUser(newUser("u1", "Jane@Example.com")))
	assert.ErrorIs(t, s.CreateUser(newUser("u2", " jane@example.com ")), ErrUserExists)
	assert.ErrorIs(t, s.CreateUser(newUser("", "x@example.com")), ErrInvalidData)

	got, err := s.GetUserByEmail("JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	got.FullName = "changed"
	again, err := s.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "Officer u1", again.FullName, "returned records are copies")

	again.Verified = true
	require.NoError(t, s.UpdateUser(again))
	updated, err := s.GetUser("u1")
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	_, err = s.GetUser("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.UpdateUser(newUser("missing", "m@example.com")), ErrUserNotFound)
}

func TestMemoryDraftOwnership(t *testing.T) {
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.UpsertDraft(newDraft("d1", "u1", now)))
	assert.ErrorIs(t, s.UpsertDraft(newDraft("d1", "u2", now)), ErrDraftOwner)

	d, err := s.GetDraft("d1")
	require.NoError(t, err)
	d.Exhibits[0] = "mutated"

	stored, err := s.GetDraft("d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"knife"}, stored.Exhibits)

	_, err = s.GetDraft("nope")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryListDraftsNewestFirst(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Now()

	require.NoError(t, s.UpsertDraft(newDraft("old", "u1", base.Add(-time.Hour))))
	require.NoError(t, s.UpsertDraft(newDraft("new", "u1", base)))
	require.NoError(t, s.UpsertDraft(newDraft("other", "u2", base)))

	drafts, err := s.ListDrafts("u1")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "new", drafts[0].DraftID)
	assert.Equal(t, "old", drafts[1].DraftID)

	none, err := s.ListDrafts("nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryNotifications(t *testing.T) {
	s := NewMemoryStorage()
	base := time.Now()

	for i, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, s.AddNotification(&model.Notification{
			ID: id, UserID: "u1", Title: id, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, s.AddNotification(&model.Notification{ID: "x", UserID: "u2", CreatedAt: base}))

	list, err := s.ListNotifications("u1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n3", list[0].ID)

	assert.ErrorIs(t, s.MarkNotificationRead("u2", "n1"), ErrNotificationNotFound)
	require.NoError(t, s.MarkNotificationRead("u1", "n1"))

	count, err := s.MarkAllNotificationsRead("u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.MarkAllNotificationsRead("u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryChats(t *testing.T) {
	s := NewMemoryStorage()

	require.NoError(t, s.AddChat(&model.ChatEntry{ID: "c1", UserID: "u1", Question: "q", CreatedAt: time.Now()}))
	assert.ErrorIs(t, s.DeleteChat("u2", "c1"), ErrChatNotFound)
	require.NoError(t, s.DeleteChat("u1", "c1"))
	assert.ErrorIs(t, s.DeleteChat("u1", "c1"), ErrChatNotFound)

	list, err := s.ListChats("u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDiskStoragePersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	s := NewDiskStorage(dir)
	require.NoError(t, s.Init())
	require.NoError(t, s.CreateUser(newUser("u1", "a@example.com")))
	require.NoError(t, s.UpsertDraft(newDraft("d1", "u1", time.Now())))
	require.NoError(t, s.CreateSMF(&model.SMF{SMFID: "s1", UserID: "u1", Content: "facts"}))
	require.NoError(t, s.AddNotification(&model.Notification{ID: "n1", UserID: "u1"}))
	require.NoError(t, s.AddChat(&model.ChatEntry{ID: "c1", UserID: "u1"}))
	require.NoError(t, s.Close())

	for _, name := range []string{"users", "drafts", "smfs", "notifications", "chats"} {
		assert.FileExists(t, filepath.Join(dir, name+".json"))
	}

	reopened := NewDiskStorage(dir)
	require.NoError(t, reopened.Init())

	u, err := reopened.GetUserByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)

	d, err := reopened.GetDraft("d1")
	require.NoError(t, err)
	assert.Equal(t, "Main St", d.Location)

	smf, err := reopened.GetSMF("s1")
	require.NoError(t, err)
	assert.Equal(t, "facts", smf.Content)

	notes, err := reopened.ListNotifications("u1", 0)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	chats, err := reopened.ListChats("u1")
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestDiskStorageRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0644))

	err := NewDiskStorage(dir).Init()
	assert.ErrorIs(t, err, ErrStorageInit)
}

func TestDiskStorageBackup(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(dir)
	require.NoError(t, s.Init())
	require.NoError(t, s.CreateUser(newUser("u1", "a@example.com")))

	require.NoError(t, s.Backup())

	entries, err := os.ReadDir(filepath.Join(dir, "backup"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.FileExists(t, filepath.Join(dir, "backup", entries[0].Name(), "users.json"))
}
