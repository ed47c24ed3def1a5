// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Monitor string
	Variant reconcile.Variant

	// At is the wall-clock capture time, truncated to the second.
	At time.Time

	// Took is how long the fetch ran.
	Took time.Duration

	Snapshot   reconcile.Snapshot
	Consistent bool
	Err        error // non-nil means the poll cycle failed; Snapshot is nil
}
