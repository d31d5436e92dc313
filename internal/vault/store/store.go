// Package store implements the category-aware CRUD façade over the secure
// storage adapter and the category index.
//
// Write ordering on create is record, then sidecar, then index: a crash
// between the record write and the index write leaves an unreferenced but
// durable record, which Repair can pick back up — never a referenced but
// missing one. ReadAll self-heals dangling index entries (keys without a
// backing record) by removing them from the index.
//
// Partial updates merge over the existing fields without re-running the full
// create validation; this mirrors the mobile app's behavior. An update can
// never move a record between categories.
package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lockbox-mobile/lockbox/internal/common"
	"github.com/lockbox-mobile/lockbox/internal/keychain"
	"github.com/lockbox-mobile/lockbox/internal/logging"
	"github.com/lockbox-mobile/lockbox/internal/vault/index"
	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/storage"
)

type Store struct {
	adapter *storage.Adapter
	index   *index.Manager
	log     logging.Logger

	// now is a test seam for timestamp stamping.
	now func() time.Time
}

func New(adapter *storage.Adapter, idx *index.Manager, log logging.Logger) *Store {
	return &Store{
		adapter: adapter,
		index:   idx,
		log:     log.With("component", "store"),
		now:     time.Now,
	}
}

// newID generates a record id: base36 millisecond timestamp, a dash, then a
// random base36 suffix. Collision-free without coordination.
func (s *Store) newID() (string, error) {
	ts := strconv.FormatInt(s.now().UnixMilli(), 36)
	suffix, err := common.MakeRandBase36String(13)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return ts + "-" + suffix, nil
}

// Create validates fields against the category's rules, stamps id and
// timestamps, and persists the record, its sidecar and its index entry.
// Validation failures never touch storage. If the index write fails the
// record is already durable and retrievable by id; Repair re-links it.
func (s *Store) Create(ctx context.Context, c models.Category, fields map[string]string) (*models.Record, error) {
	if !c.Valid() {
		return nil, &common.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if err := models.ValidateFields(c, fields); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := &models.Record{
		ID:        id,
		Category:  c,
		Fields:    cloneFields(fields),
		CreatedAt: models.Timestamp(now),
		UpdatedAt: models.Timestamp(now),
	}

	if err := s.adapter.Put(ctx, rec.ID, rec); err != nil {
		return nil, err
	}
	if err := s.adapter.PutSidecar(ctx, rec.ID, c, now); err != nil {
		return nil, err
	}
	if err := s.index.AddKey(ctx, c, rec.ID); err != nil {
		return nil, fmt.Errorf("record %q written but unindexed: %w", rec.ID, err)
	}

	s.log.Debug(ctx, "record created", "category", c, "id", rec.ID)
	return rec.Clone(), nil
}

// CreateVariant is a typed convenience over Create.
func (s *Store) CreateVariant(ctx context.Context, v models.Variant) (*models.Record, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return s.Create(ctx, v.Category(), v.Fields())
}

// ReadAll returns every live record of the category. Index keys with no
// backing record are excluded from the result and removed from the index;
// a failed heal write is logged and retried implicitly on the next call.
func (s *Store) ReadAll(ctx context.Context, c models.Category) ([]models.Record, error) {
	keys, err := s.index.Keys(ctx, c)
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(keys))
	var dangling []string
	for _, id := range keys {
		var rec models.Record
		ok, err := s.adapter.Get(ctx, id, &rec)
		if err != nil {
			return nil, err
		}
		if !ok {
			dangling = append(dangling, id)
			continue
		}
		records = append(records, *rec.Clone())
	}

	for _, id := range dangling {
		s.log.Warn(ctx, "healing dangling index entry", "category", c, "id", id)
		if err := s.index.RemoveKey(ctx, c, id); err != nil {
			s.log.Error(ctx, "failed to heal index", "category", c, "id", id, "error", err)
		}
	}

	return records, nil
}

// ReadOne fetches a single record by id without consulting the index, so a
// record orphaned by a failed index write stays reachable. Absence returns
// (nil, nil); a record belonging to another category is treated as absent.
func (s *Store) ReadOne(ctx context.Context, c models.Category, id string) (*models.Record, error) {
	var rec models.Record
	ok, err := s.adapter.Get(ctx, id, &rec)
	if err != nil {
		return nil, err
	}
	if !ok || rec.Category != c {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Update merges partial over the existing record's fields, refreshes
// updatedAt and the sidecar, and writes back. The index is untouched: the id
// never changes. Returns common.ErrNotFound when the record is absent.
func (s *Store) Update(ctx context.Context, c models.Category, id string, partial map[string]string) (*models.Record, error) {
	rec, err := s.ReadOne(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("update %q: %w", id, common.ErrNotFound)
	}

	if rec.Fields == nil {
		rec.Fields = make(map[string]string, len(partial))
	}
	for k, v := range partial {
		rec.Fields[k] = v
	}

	now := s.now()
	rec.UpdatedAt = models.Timestamp(now)

	if err := s.adapter.Put(ctx, rec.ID, rec); err != nil {
		return nil, err
	}
	if err := s.adapter.PutSidecar(ctx, rec.ID, c, now); err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "record updated", "category", c, "id", id)
	return rec.Clone(), nil
}

// Delete removes the record, its sidecar and its index entry. Every step is
// idempotent, so deleting an absent id is a no-op success.
func (s *Store) Delete(ctx context.Context, c models.Category, id string) error {
	if err := s.adapter.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.adapter.DeleteSidecar(ctx, id); err != nil {
		return err
	}
	if err := s.index.RemoveKey(ctx, c, id); err != nil {
		return err
	}

	s.log.Debug(ctx, "record deleted", "category", c, "id", id)
	return nil
}

// Restore persists an existing record verbatim (id and timestamps kept) and
// re-links it in the index. Used by backup import.
func (s *Store) Restore(ctx context.Context, rec *models.Record) error {
	if !rec.Category.Valid() {
		return &common.ValidationError{Field: "category", Reason: "unknown category"}
	}

	modified, err := time.Parse(time.RFC3339, rec.UpdatedAt)
	if err != nil {
		modified = s.now()
	}

	if err := s.adapter.Put(ctx, rec.ID, rec); err != nil {
		return err
	}
	if err := s.adapter.PutSidecar(ctx, rec.ID, rec.Category, modified); err != nil {
		return err
	}
	return s.index.AddKey(ctx, rec.Category, rec.ID)
}

// Repair re-establishes index/record agreement for the category. Dangling
// index entries are always pruned. When the keychain can enumerate its keys
// (keychain.Lister), unreferenced records found by their sidecars are
// re-linked too; primitives without listing get the pruning pass only.
func (s *Store) Repair(ctx context.Context, c models.Category) error {
	keys, err := s.index.Keys(ctx, c)
	if err != nil {
		return err
	}

	live := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, id := range keys {
		var rec models.Record
		ok, err := s.adapter.Get(ctx, id, &rec)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Warn(ctx, "repair: pruning dangling entry", "category", c, "id", id)
			continue
		}
		live = append(live, id)
		seen[id] = struct{}{}
	}

	if lister, ok := s.adapter.Keychain().(keychain.Lister); ok {
		orphans, err := s.findOrphans(ctx, lister, c, seen)
		if err != nil {
			return err
		}
		for _, id := range orphans {
			s.log.Warn(ctx, "repair: re-linking orphaned record", "category", c, "id", id)
		}
		live = append(live, orphans...)
	}

	if err := s.index.Replace(ctx, c, live); err != nil {
		return fmt.Errorf("%w: repair %s: %w", common.ErrIndexInconsistency, c, err)
	}
	return nil
}

// findOrphans scans sidecar entries for records of category c missing from
// the index. Sidecars rather than records are matched so the scan never
// parses full documents.
func (s *Store) findOrphans(ctx context.Context, lister keychain.Lister, c models.Category, indexed map[string]struct{}) ([]string, error) {
	all, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w: %w", common.ErrStorageRead, err)
	}

	var orphans []string
	for _, key := range all {
		id, isSidecar := sidecarID(key)
		if !isSidecar {
			continue
		}
		if _, ok := indexed[id]; ok {
			continue
		}
		sc, ok, err := s.adapter.GetSidecar(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok || sc.Category != c {
			continue
		}
		// sidecar without a record is leftover noise, not an orphan
		var rec models.Record
		ok, err = s.adapter.Get(ctx, id, &rec)
		if err != nil {
			return nil, err
		}
		if ok {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}

func sidecarID(key string) (string, bool) {
	const suffix = "_metadata"
	if len(key) <= len(suffix) || key[len(key)-len(suffix):] != suffix {
		return "", false
	}
	return key[:len(key)-len(suffix)], true
}

func cloneFields(fields map[string]string) map[string]string {
	c := make(map[string]string, len(fields))
	for k, v := range fields {
		c[k] = v
	}
	return c
}
