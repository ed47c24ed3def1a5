// internal/monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/counter-reconciler/internal/board"
	"github.com/tamzrod/counter-reconciler/internal/metrics"
	"github.com/tamzrod/counter-reconciler/internal/poller"
	"github.com/tamzrod/counter-reconciler/internal/status"
	"github.com/tamzrod/counter-reconciler/internal/writer"
)

// Config wires a Monitor.
type Config struct {
	Board  *board.Board
	Status writer.StatusWriter // nil disables the status mirror
	Logger zerolog.Logger
}

// Monitor is the consumer side of the poll pipeline. It owns the status
// snapshot and is the only place poll errors are logged.
type Monitor struct {
	board  *board.Board
	data   writer.Writer
	status writer.StatusWriter
	log    zerolog.Logger

	mu   sync.RWMutex
	snap status.Snapshot
	last time.Time // capture time of the last completed cycle

	// writeMu serializes status writes. It is taken while mu is held and
	// kept across the write after mu is released, so writes go out in
	// snapshot order and Status readers never wait on device I/O.
	writeMu sync.Mutex
}

// New creates a Monitor in the boot state.
func New(cfg Config) (*Monitor, error) {
	if cfg.Board == nil {
		return nil, errors.New("monitor: board required")
	}
	return &Monitor{
		board:  cfg.Board,
		data:   writer.New(writer.NewBoardWriter(cfg.Board), metrics.Recorder{}),
		status: cfg.Status,
		log:    cfg.Logger,
		snap:   status.Snapshot{Health: status.HealthUnknown},
	}, nil
}

// Status returns the current status snapshot and the last cycle time.
func (m *Monitor) Status() (status.Snapshot, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap, m.last
}

// Run consumes results until ctx is done or in is closed.
// The full status block is written once on start.
func (m *Monitor) Run(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	m.mu.Lock()
	m.publish(m.snap, "start")

	for {
		select {
		case <-ctx.Done():
			return

		case res, ok := <-in:
			if !ok {
				return
			}
			m.Handle(res)

		case <-secTicker.C:
			m.Tick()
		}
	}
}

// Handle processes one poll result: data delivery, logging, status update.
func (m *Monitor) Handle(res poller.PollResult) {
	// --- data delivery ---
	if err := m.data.Write(res); err != nil {
		m.log.Error().Err(err).Msg("writer error")
	}
	metrics.BoardRows(m.board.Len())

	m.logCycle(res)

	// --- status update ---
	m.mu.Lock()

	m.last = res.At
	next := m.snap

	switch {
	case res.Err != nil:
		next.Health = status.HealthStale
		next.LastErrorCode = errorCode(res.Err)
		// seconds_in_error increments on the 1Hz ticker only

	case res.Consistent:
		next.Health = status.HealthConsistent
		next.LastErrorCode = status.ErrorNone
		next.SecondsInError = 0

	default:
		next.Health = status.HealthInconsistent
		next.LastErrorCode = status.ErrorNone
	}

	if next != m.snap {
		if next.Health != m.snap.Health {
			m.log.Info().
				Str("from", status.HealthName(m.snap.Health)).
				Str("to", status.HealthName(next.Health)).
				Msg("health changed")
		}
		m.snap = next
		m.publish(next, "cycle")
		return
	}
	m.mu.Unlock()
}

// Tick advances seconds_in_error while not consistent.
func (m *Monitor) Tick() {
	m.mu.Lock()

	if m.snap.Health == status.HealthConsistent ||
		m.snap.SecondsInError >= status.SecondsInErrorMax {
		m.mu.Unlock()
		return
	}
	m.snap.SecondsInError++
	m.publish(m.snap, "seconds tick")
}

// publish must be called with mu held and releases it. The write itself
// happens outside mu.
func (m *Monitor) publish(snap status.Snapshot, stage string) {
	m.writeMu.Lock()
	m.mu.Unlock()
	defer m.writeMu.Unlock()

	if m.status == nil {
		return
	}
	if err := m.status.WriteStatus(snap); err != nil {
		metrics.StatusWriteFailed()
		m.log.Error().Err(err).Str("stage", stage).Msg("status write failed")
	}
}

func (m *Monitor) logCycle(res poller.PollResult) {
	outcome := metrics.Outcome(res)

	if res.Err != nil {
		m.log.Error().
			Err(res.Err).
			Str("outcome", outcome).
			Uint16("code", errorCode(res.Err)).
			Dur("took", res.Took).
			Msg("poll cycle failed")
		return
	}

	fields := make(map[string]any, len(res.Snapshot))
	for k, v := range res.Snapshot {
		fields[k] = v
	}

	ev := m.log.Info()
	if !res.Consistent {
		ev = m.log.Warn()
	}
	ev.Str("outcome", outcome).
		Fields(fields).
		Dur("took", res.Took).
		Msg("poll cycle")
}

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns status.ErrorGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return status.ErrorNone
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return status.ErrorGeneric
}
