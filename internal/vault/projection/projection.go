// Package projection keeps the session-lived in-memory mirror of durable
// records that the UI reads synchronously between explicit reloads.
//
// Load is the only path that refreshes a category from durable state; the
// UI triggers it on screen focus, never on a timer. UpsertLocal/RemoveLocal
// are optimistic patches applied right after a successful store call and
// are valid only until the next Load — a full reload silently wins over any
// local patch.
package projection

import (
	"context"
	"sync"

	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/store"
)

type Projection struct {
	store *store.Store

	mu      sync.RWMutex
	records map[models.Category][]models.Record
}

func New(st *store.Store) *Projection {
	return &Projection{
		store:   st,
		records: make(map[models.Category][]models.Record),
	}
}

// Load replaces the category's entire in-memory sequence with the result of
// a fresh ReadAll and returns a snapshot of it.
func (p *Projection) Load(ctx context.Context, c models.Category) ([]models.Record, error) {
	records, err := p.store.ReadAll(ctx, c)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.records[c] = records
	p.mu.Unlock()

	return snapshot(records), nil
}

// Records returns a snapshot of the category's current in-memory sequence.
// It never touches durable storage.
func (p *Projection) Records(c models.Category) []models.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return snapshot(p.records[c])
}

// UpsertLocal folds a just-created or just-updated record into the mirror
// without a full reload.
func (p *Projection) UpsertLocal(rec *models.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seq := p.records[rec.Category]
	for i := range seq {
		if seq[i].ID == rec.ID {
			seq[i] = *rec.Clone()
			return
		}
	}
	p.records[rec.Category] = append(seq, *rec.Clone())
}

// RemoveLocal drops a just-deleted record from the mirror.
func (p *Projection) RemoveLocal(c models.Category, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seq := p.records[c]
	for i := range seq {
		if seq[i].ID == id {
			p.records[c] = append(seq[:i], seq[i+1:]...)
			return
		}
	}
}

// Reset discards every cached sequence. Called on logout.
func (p *Projection) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = make(map[models.Category][]models.Record)
}

func snapshot(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for i := range records {
		out = append(out, *records[i].Clone())
	}
	return out
}
