package save

import (
	"sync"

	"github.com/hanafuda/koikoi-go/internal/stats"
)

// LocalStore persists save slots and profiles on the player's device.
// A missing record is returned as (nil, nil), not an error.
type LocalStore interface {
	PutSave(record *GameSaveRecord) error
	GetSave(uid, saveKey string) (*GameSaveRecord, error)
	ListSaves(uid string) ([]GameSaveRecord, error)
	DeleteSave(uid, saveKey string) error
	PutProfile(profile *stats.Profile) error
	GetProfile(uid string) (*stats.Profile, error)
	Close() error
}

// MemoryStore is an in-memory LocalStore for tests and ephemeral
// sessions.
type MemoryStore struct {
	mu       sync.Mutex
	saves    map[string]GameSaveRecord
	profiles map[string]*stats.Profile
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saves:    map[string]GameSaveRecord{},
		profiles: map[string]*stats.Profile{},
	}
}

// PutSave stores or replaces the slot.
func (m *MemoryStore) PutSave(record *GameSaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[record.ID] = *record
	return nil
}

// GetSave loads one slot, nil when absent.
func (m *MemoryStore) GetSave(uid, saveKey string) (*GameSaveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.saves[RecordID(uid, saveKey)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// ListSaves returns every slot a player owns.
func (m *MemoryStore) ListSaves(uid string) ([]GameSaveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []GameSaveRecord
	for _, record := range m.saves {
		if record.UID == uid {
			out = append(out, record)
		}
	}
	return out, nil
}

// DeleteSave removes one slot. Deleting a missing slot is a no-op.
func (m *MemoryStore) DeleteSave(uid, saveKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, RecordID(uid, saveKey))
	return nil
}

// PutProfile stores or replaces a profile.
func (m *MemoryStore) PutProfile(profile *stats.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UID] = profile
	return nil
}

// GetProfile loads a profile, nil when absent.
func (m *MemoryStore) GetProfile(uid string) (*stats.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[uid], nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
