// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/counter-reconciler/internal/status"
)

// StatusWriter is the delivery-only contract for the status block.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact register contract the status writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// blockStatusWriter writes the status block into holding registers.
type blockStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer for plan over cli.
func NewStatusWriter(plan StatusPlan, cli endpointClient) (StatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	if uint32(plan.BaseSlot)*status.SlotsPerMonitor+status.SlotsPerMonitor-1 > 0xFFFF {
		return nil, fmt.Errorf("status writer: base slot %d out of range", plan.BaseSlot)
	}

	return &blockStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}, nil
}

// WriteStatus delivers a snapshot into status memory.
// The first call, and the next call after any failure, writes the full
// block; otherwise only the changed live slots are written.
func (sw *blockStatusWriter) WriteStatus(s status.Snapshot) error {
	base := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base, status.Encode(s, sw.plan.Name)); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	write := func(slot uint16, label string, cur *uint16, next uint16) {
		if *cur == next {
			return
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, base+slot, []uint16{next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, label, err))
			return
		}
		*cur = next
	}

	write(status.SlotHealthCode, "health", &sw.last.Health, s.Health)
	write(status.SlotLastErrorCode, "last_error", &sw.last.LastErrorCode, s.LastErrorCode)
	write(status.SlotSecondsInError, "seconds", &sw.last.SecondsInError, s.SecondsInError)

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next write.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *blockStatusWriter) baseAddr() uint16 {
	// Each monitor owns a fixed SlotsPerMonitor block.
	return sw.plan.BaseSlot * status.SlotsPerMonitor
}
