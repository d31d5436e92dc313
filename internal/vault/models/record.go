// Package models defines the vault record types, their categories and the
// per-category validation rules.
package models

import "time"

// Category identifies one of the independent record collections. Each
// category has its own durable key index and its own validation schema.
type Category string

const (
	CategoryCredential   Category = "credential"
	CategoryPersonalInfo Category = "personalInfo"
	CategoryNote         Category = "note"
)

// Categories lists every known category, in display order.
var Categories = []Category{CategoryCredential, CategoryPersonalInfo, CategoryNote}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryCredential, CategoryPersonalInfo, CategoryNote:
		return true
	}
	return false
}

// Record is a category-tagged document. Timestamps are RFC 3339 strings so
// the persisted JSON round-trips byte-exactly.
type Record struct {
	ID        string            `json:"id"`
	Category  Category          `json:"category"`
	Fields    map[string]string `json:"fields"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// Clone returns a deep copy; the store and projection hand out clones so
// callers can never mutate shared state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return &c
}

// Sidecar is the per-record metadata entry stored under "<id>_metadata".
// It is written and deleted in lockstep with the record itself so listings
// can sort without parsing full documents.
type Sidecar struct {
	LastModified string   `json:"lastModified"`
	Category     Category `json:"category"`
}

// SidecarKey returns the storage key of a record's metadata entry.
func SidecarKey(id string) string {
	return id + "_metadata"
}

// Timestamp formats t the way all vault timestamps are persisted.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
