// internal/writer/writer.go
package writer

import (
	"errors"
	"strings"

	"github.com/tamzrod/counter-reconciler/internal/board"
	"github.com/tamzrod/counter-reconciler/internal/poller"
	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

type multiWriter struct {
	writers []Writer
}

// New fans each result out to every writer in order. A failing writer
// does not stop the others; failures are joined into one error.
func New(writers ...Writer) Writer {
	return &multiWriter{writers: writers}
}

func (w *multiWriter) Write(res poller.PollResult) error {
	var errs []string

	for _, wr := range w.writers {
		if wr == nil {
			continue
		}
		if err := wr.Write(res); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

type boardWriter struct {
	b *board.Board
}

// NewBoardWriter appends one record per successful cycle to b.
// Failed cycles append nothing.
func NewBoardWriter(b *board.Board) Writer {
	return &boardWriter{b: b}
}

func (w *boardWriter) Write(res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}
	rule := w.b.Rule()
	if res.Variant != "" && res.Variant != rule.Variant() {
		return errors.New("writer: board variant " + string(rule.Variant()) + " cannot hold variant " + string(res.Variant))
	}
	if res.Snapshot == nil {
		return &reconcile.ValidationError{Reason: "successful cycle without snapshot"}
	}

	w.b.Append(board.NewRecord(res.At, rule, res.Snapshot, res.Consistent))
	return nil
}
