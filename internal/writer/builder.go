// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/counter-reconciler/internal/config"
	wmodbus "github.com/tamzrod/counter-reconciler/internal/writer/modbus"
)

// BuildPlan converts monitor config into a StatusPlan.
// Returns false if the status mirror is not enabled.
func BuildPlan(m cfg.MonitorConfig) (StatusPlan, bool) {
	if !m.Status.Enabled {
		return StatusPlan{}, false
	}
	return StatusPlan{
		Endpoint: m.Status.Endpoint,
		UnitID:   m.Status.UnitID,
		BaseSlot: m.Status.BaseSlot,
		Name:     m.Name,
	}, true
}

// BuildStatusWriter creates the Modbus status writer for a monitor.
// Returns a nil writer and a no-op closer when status is disabled.
func BuildStatusWriter(m cfg.MonitorConfig) (StatusWriter, func() error, error) {
	plan, ok := BuildPlan(m)
	if !ok {
		return nil, func() error { return nil }, nil
	}

	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Endpoint,
		Timeout:  time.Duration(m.Status.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewStatusWriter(plan, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}

	return sw, cli.Close, nil
}
