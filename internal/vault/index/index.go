// Package index maintains, per category, the durable ordered list of live
// record keys under the "<category>Keys" entry.
//
// AddKey and RemoveKey are read-modify-write sequences against a shared
// value. The manager serializes them behind a per-category mutex, so two
// concurrent creates in the same category cannot lose an entry; callers need
// no external coordination within one process.
package index

import (
	"context"
	"sync"

	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

// Key returns the storage key of a category's index entry.
func Key(c models.Category) string {
	return string(c) + "Keys"
}

type Manager struct {
	adapter *storage.Adapter

	mu    sync.Mutex
	locks map[models.Category]*sync.Mutex
}

func NewManager(adapter *storage.Adapter) *Manager {
	return &Manager{
		adapter: adapter,
		locks:   make(map[models.Category]*sync.Mutex),
	}
}

func (m *Manager) lock(c models.Category) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[c]
	if !ok {
		l = &sync.Mutex{}
		m.locks[c] = l
	}
	return l
}

// Keys returns the category's current key list. An absent index means "no
// records yet" and yields an empty slice, never an error.
func (m *Manager) Keys(ctx context.Context, c models.Category) ([]string, error) {
	var keys []string
	ok, err := m.adapter.Get(ctx, Key(c), &keys)
	if err != nil {
		return nil, err
	}
	if !ok || keys == nil {
		return []string{}, nil
	}
	return keys, nil
}

// AddKey appends key to the category's index. Adding a key that is already
// present is a no-op.
func (m *Manager) AddKey(ctx context.Context, c models.Category, key string) error {
	l := m.lock(c)
	l.Lock()
	defer l.Unlock()

	keys, err := m.Keys(ctx, c)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return m.adapter.Put(ctx, Key(c), append(keys, key))
}

// RemoveKey filters key out of the category's index. Removing an absent key
// still writes the (unchanged) list back, matching the idempotent-delete
// contract of the store.
func (m *Manager) RemoveKey(ctx context.Context, c models.Category, key string) error {
	l := m.lock(c)
	l.Lock()
	defer l.Unlock()

	keys, err := m.Keys(ctx, c)
	if err != nil {
		return err
	}
	updated := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != key {
			updated = append(updated, k)
		}
	}
	return m.adapter.Put(ctx, Key(c), updated)
}

// Replace overwrites the category's index with keys. Used by the repair pass
// when rebuilding from reachable records.
func (m *Manager) Replace(ctx context.Context, c models.Category, keys []string) error {
	l := m.lock(c)
	l.Lock()
	defer l.Unlock()

	if keys == nil {
		keys = []string{}
	}
	return m.adapter.Put(ctx, Key(c), keys)
}
