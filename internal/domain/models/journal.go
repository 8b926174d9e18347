package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag and Category are user-scoped labels attached to entries.
type Tag struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
}

type Category struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
}

// JournalEntry is the persisted entry plus its labels.
type JournalEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Summary    string     `json:"summary,omitempty"`
	EntryDate  time.Time  `json:"entryDate"`
	Tags       []Tag      `json:"tags"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// EntrySnapshot is the wire payload published to the entry queue on every
// create/update. It carries everything post-processing needs so the worker
// does not depend on read-your-writes against the primary store.
type EntrySnapshot struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	EntryDate  time.Time `json:"entryDate"`
	Tags       []string  `json:"tags"`
	Categories []string  `json:"categories"`
}

// DerivedUpdate is what post-processing writes back onto an entry.
// Nil slices mean "leave alone"; auto-derived labels never replace
// user-entered ones.
type DerivedUpdate struct {
	EntryID    uuid.UUID
	UserID     uuid.UUID
	Title      string
	Summary    *string
	Tags       []string
	Categories []string
}
