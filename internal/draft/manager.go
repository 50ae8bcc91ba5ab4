// Package draft keeps a remote draft record eventually consistent with the
// fields a user is editing, flushing on a fixed period without blocking edits.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"nexus-assist/internal/timer"
	"nexus-assist/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultInterval = 2 * time.Second

var ErrNoOwner = errors.New("draft: owner id is required")

// Saver upserts the full field set of a draft.
type Saver interface {
	SaveDraft(ctx context.Context, draftID, ownerID string, fields map[string]string) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, draftID, ownerID string, fields map[string]string) error

func (f SaverFunc) SaveDraft(ctx context.Context, draftID, ownerID string, fields map[string]string) error {
	return f(ctx, draftID, ownerID, fields)
}

type Options struct {
	// Interval between flushes. Zero means DefaultInterval.
	Interval time.Duration
	// Meaningful lists the fields of which at least one must be non-blank
	// before anything is persisted. Empty means any field counts.
	Meaningful []string
	// NewID overrides draft id generation.
	NewID func() string
}

// Outcome reports what a single Tick did.
type Outcome int

const (
	Saved Outcome = iota
	Unchanged
	Empty
	Busy
	Failed
	Closed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Unchanged:
		return "unchanged"
	case Empty:
		return "empty"
	case Busy:
		return "busy"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type Manager struct {
	id    string
	owner string
	saver Saver
	opts  Options

	mu          sync.Mutex
	fields      map[string]string
	lastFlushed string
	inflight    bool
	finalized   bool
	handle      *timer.Handle
}

// New creates a draft session for owner. It fails with ErrNoOwner when
// owner is blank; callers must send the user to login instead.
func New(owner string, saver Saver, opts Options) (*Manager, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, ErrNoOwner
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Manager{
		id:     newID(),
		owner:  owner,
		saver:  saver,
		opts:   opts,
		fields: make(map[string]string),
	}, nil
}

func (m *Manager) ID() string {
	return m.id
}

func (m *Manager) Owner() string {
	return m.owner
}

// Record applies one field edit locally. It never performs I/O.
func (m *Manager) Record(field, value string) {
	m.mu.Lock()
	m.fields[field] = value
	m.mu.Unlock()
}

// Restore loads fields that already exist remotely, e.g. when resuming a
// draft, without scheduling a redundant save.
func (m *Manager) Restore(fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range fields {
		m.fields[k] = v
	}
	m.lastFlushed = m.snapshotLocked()
}

// Fields returns a copy of the current field values.
func (m *Manager) Fields() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyFields(m.fields)
}

// Snapshot returns the canonical serialization of the current fields.
func (m *Manager) Snapshot() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() string {
	// encoding/json sorts map keys, so equal field sets serialize identically
	b, _ := json.Marshal(m.fields)
	return string(b)
}

func (m *Manager) meaningfulLocked() bool {
	if len(m.opts.Meaningful) == 0 {
		for _, v := range m.fields {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
		return false
	}
	for _, name := range m.opts.Meaningful {
		if strings.TrimSpace(m.fields[name]) != "" {
			return true
		}
	}
	return false
}

// Tick flushes the fields if they changed since the last successful save.
// Failures are logged and retried on the next tick with whatever the fields
// hold by then.
func (m *Manager) Tick(ctx context.Context) Outcome {
	m.mu.Lock()
	if m.finalized {
		m.mu.Unlock()
		return Closed
	}
	snap := m.snapshotLocked()
	if snap == m.lastFlushed {
		m.mu.Unlock()
		return Unchanged
	}
	if !m.meaningfulLocked() {
		m.mu.Unlock()
		return Empty
	}
	if m.inflight {
		m.mu.Unlock()
		return Busy
	}
	m.inflight = true
	fields := copyFields(m.fields)
	m.mu.Unlock()

	err := m.saver.SaveDraft(ctx, m.id, m.owner, fields)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight = false
	if err != nil {
		logger.WithFields(logrus.Fields{
			"draft_id": m.id,
		}).Warnf("autosave failed, retrying next tick: %v", err)
		return Failed
	}
	m.lastFlushed = snap
	logger.Debugf("autosaved draft %s", m.id)
	return Saved
}

// Start begins periodic flushing. Calling Start on a running or finalized
// manager does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle != nil || m.finalized {
		return
	}
	m.handle = timer.Every(ctx, m.opts.Interval, func(ctx context.Context) {
		m.Tick(ctx)
	})
}

// Stop cancels periodic flushing and waits for an in-progress tick to end.
func (m *Manager) Stop() {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// Finalize stops flushing for good; the draft is owned upstream from here on.
func (m *Manager) Finalize() {
	m.mu.Lock()
	m.finalized = true
	m.mu.Unlock()
	m.Stop()
}

func (m *Manager) Finalized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalized
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
