// internal/board/board.go
package board

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// Record is one reconciled poll cycle as displayed. Immutable once built.
type Record struct {
	ID         uuid.UUID         `json:"id"`
	At         time.Time         `json:"at"`
	Variant    reconcile.Variant `json:"variant"`
	Counters   []Counter         `json:"counters"` // fixed column order
	Consistent bool              `json:"consistent"`
}

// Counter is one named column value.
type Counter struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// NewRecord lays out snap in the rule's column order.
// The rule must already have accepted snap; absent columns read as zero.
func NewRecord(at time.Time, rule reconcile.Rule, snap reconcile.Snapshot, consistent bool) Record {
	cols := rule.Columns()
	counters := make([]Counter, len(cols))
	for i, name := range cols {
		counters[i] = Counter{Name: name, Value: snap[name]}
	}

	return Record{
		ID:         uuid.New(),
		At:         at.Truncate(time.Second),
		Variant:    rule.Variant(),
		Counters:   counters,
		Consistent: consistent,
	}
}

// RowClass is the CSS class selected by the consistency flag.
func (r Record) RowClass() string {
	if r.Consistent {
		return "green-row"
	}
	return "red-row"
}

// Time is the capture time as HH:MM:SS in the local zone.
func (r Record) Time() string {
	return r.At.Local().Format("15:04:05")
}

// Board is the append-only list of records for one monitor.
// Records are never mutated or removed; growth is unbounded.
type Board struct {
	rule reconcile.Rule

	mu      sync.RWMutex
	records []Record
}

// New creates an empty board for rule's variant.
func New(rule reconcile.Rule) *Board {
	return &Board{rule: rule}
}

// Rule is the reconciliation rule the board lays columns out for.
func (b *Board) Rule() reconcile.Rule { return b.rule }

// Append adds r to the end of the list.
func (b *Board) Append(r Record) {
	b.mu.Lock()
	b.records = append(b.records, r)
	b.mu.Unlock()
}

// Records returns a copy of all records in append order.
func (b *Board) Records() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Len is the number of records.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Last returns the most recent record, if any.
func (b *Board) Last() (Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.records) == 0 {
		return Record{}, false
	}
	return b.records[len(b.records)-1], true
}
