// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// Source abstracts the backend the poller reads counters from.
type Source interface {
	Fetch(ctx context.Context) (reconcile.Snapshot, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Monitor  string
	Interval time.Duration
	Rule     reconcile.Rule
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	source Source
	now    func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, source Source) (*Poller, error) {
	if cfg.Monitor == "" {
		return nil, errors.New("poller: monitor name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if cfg.Rule == nil {
		return nil, errors.New("poller: reconciliation rule required")
	}
	if source == nil {
		return nil, errors.New("poller: source required")
	}
	return &Poller{cfg: cfg, source: source, now: time.Now}, nil
}

// Interval is the configured tick period.
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// Rule is the reconciliation rule applied to each snapshot.
func (p *Poller) Rule() reconcile.Rule { return p.cfg.Rule }

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a failed fetch or an unusable snapshot aborts the cycle
// and leaves Snapshot nil.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	start := p.now()
	res := PollResult{
		Monitor: p.cfg.Monitor,
		Variant: p.cfg.Rule.Variant(),
		At:      start.Truncate(time.Second),
	}

	snap, err := p.source.Fetch(ctx)
	res.Took = p.now().Sub(start)
	if err != nil {
		res.Err = err
		return res
	}

	ok, err := p.cfg.Rule.Evaluate(snap)
	if err != nil {
		res.Err = err
		return res
	}

	// Commit only if fetch and evaluation succeeded
	res.Snapshot = snap
	res.Consistent = ok
	return res
}
