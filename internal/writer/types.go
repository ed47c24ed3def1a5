// internal/writer/types.go
package writer

import "github.com/tamzrod/counter-reconciler/internal/poller"

// StatusPlan is where one monitor's status block lives.
type StatusPlan struct {
	Endpoint string
	UnitID   uint8
	BaseSlot uint16 // block index; register address = BaseSlot * status.SlotsPerMonitor
	Name     string
}

// Writer delivers poll results somewhere.
type Writer interface {
	Write(res poller.PollResult) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(res poller.PollResult) error

func (f WriterFunc) Write(res poller.PollResult) error { return f(res) }
