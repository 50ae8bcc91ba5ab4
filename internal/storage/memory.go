package storage

import (
	"sort"
	"strings"
	"sync"

	"nexus-assist/internal/model"
)

// collection names, also used as file names by DiskStorage
const (
	colUsers         = "users"
	colDrafts        = "drafts"
	colSMFs          = "smfs"
	colNotifications = "notifications"
	colChats         = "chats"
)

type MemoryStorage struct {
	users         map[string]*model.UserRecord
	drafts        map[string]*model.Draft
	smfs          map[string]*model.SMF
	notifications map[string]*model.Notification
	chats         map[string]*model.ChatEntry
	mu            sync.RWMutex

	// changed runs with mu held after every mutation
	changed func(collection string) error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[string]*model.UserRecord),
		drafts:        make(map[string]*model.Draft),
		smfs:          make(map[string]*model.SMF),
		notifications: make(map[string]*model.Notification),
		chats:         make(map[string]*model.ChatEntry),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) Backup() error {
	return nil
}

func (m *MemoryStorage) commit(collection string) error {
	if m.changed == nil {
		return nil
	}
	return m.changed(collection)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryStorage) CreateUser(user *model.UserRecord) error {
	if user == nil || user.UserID == "" || user.Email == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email := normalizeEmail(user.Email)
	for _, u := range m.users {
		if normalizeEmail(u.Email) == email {
			return ErrUserExists
		}
	}
	cp := *user
	m.users[user.UserID] = &cp
	return m.commit(colUsers)
}

func (m *MemoryStorage) GetUser(userID string) (*model.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStorage) GetUserByEmail(email string) (*model.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = normalizeEmail(email)
	for _, u := range m.users {
		if normalizeEmail(u.Email) == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStorage) UpdateUser(user *model.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.UserID]; !exists {
		return ErrUserNotFound
	}
	cp := *user
	m.users[user.UserID] = &cp
	return m.commit(colUsers)
}

func cloneDraft(d *model.Draft) *model.Draft {
	cp := *d
	cp.Exhibits = append([]string(nil), d.Exhibits...)
	cp.Versions = append([]model.DraftVersion(nil), d.Versions...)
	return &cp
}

// UpsertDraft creates or replaces a draft. A draft keeps its owner; writes
// from another user are rejected.
func (m *MemoryStorage) UpsertDraft(draft *model.Draft) error {
	if draft == nil || draft.DraftID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.drafts[draft.DraftID]; ok && existing.UserID != draft.UserID {
		return ErrDraftOwner
	}
	m.drafts[draft.DraftID] = cloneDraft(draft)
	return m.commit(colDrafts)
}

func (m *MemoryStorage) GetDraft(draftID string) (*model.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, exists := m.drafts[draftID]
	if !exists {
		return nil, ErrDraftNotFound
	}
	return cloneDraft(d), nil
}

func (m *MemoryStorage) ListDrafts(userID string) ([]*model.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	drafts := make([]*model.Draft, 0)
	for _, d := range m.drafts {
		if d.UserID == userID {
			drafts = append(drafts, cloneDraft(d))
		}
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

func (m *MemoryStorage) CreateSMF(smf *model.SMF) error {
	if smf == nil || smf.SMFID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *smf
	m.smfs[smf.SMFID] = &cp
	return m.commit(colSMFs)
}

func (m *MemoryStorage) GetSMF(smfID string) (*model.SMF, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.smfs[smfID]
	if !exists {
		return nil, ErrSMFNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStorage) ListSMFs(userID string) ([]*model.SMF, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	smfs := make([]*model.SMF, 0)
	for _, s := range m.smfs {
		if s.UserID == userID {
			cp := *s
			smfs = append(smfs, &cp)
		}
	}
	sort.Slice(smfs, func(i, j int) bool {
		return smfs[i].CreatedAt.After(smfs[j].CreatedAt)
	})
	return smfs, nil
}

func (m *MemoryStorage) AddNotification(n *model.Notification) error {
	if n == nil || n.ID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *n
	m.notifications[n.ID] = &cp
	return m.commit(colNotifications)
}

// ListNotifications returns the newest notifications first; limit <= 0
// returns all of them.
func (m *MemoryStorage) ListNotifications(userID string, limit int) ([]*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID == userID {
			cp := *n
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryStorage) MarkNotificationRead(userID, notificationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, exists := m.notifications[notificationID]
	if !exists || n.UserID != userID {
		return ErrNotificationNotFound
	}
	n.Read = true
	return m.commit(colNotifications)
}

func (m *MemoryStorage) MarkAllNotificationsRead(userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return count, m.commit(colNotifications)
}

func (m *MemoryStorage) AddChat(entry *model.ChatEntry) error {
	if entry == nil || entry.ID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *entry
	m.chats[entry.ID] = &cp
	return m.commit(colChats)
}

func (m *MemoryStorage) ListChats(userID string) ([]*model.ChatEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*model.ChatEntry, 0)
	for _, c := range m.chats {
		if c.UserID == userID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *MemoryStorage) DeleteChat(userID, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, exists := m.chats[chatID]
	if !exists || c.UserID != userID {
		return ErrChatNotFound
	}
	delete(m.chats, chatID)
	return m.commit(colChats)
}
