// internal/metrics/metrics.go
package metrics

import (
	"errors"
	"net/http"

	gometrics "github.com/docker/go-metrics"

	"github.com/tamzrod/counter-reconciler/internal/poller"
	"github.com/tamzrod/counter-reconciler/internal/poller/httpsource"
	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// Cycle outcomes.
const (
	OutcomeConsistent   = "consistent"
	OutcomeInconsistent = "inconsistent"
	OutcomeFetchError   = "fetch_error"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

var (
	cycles          gometrics.LabeledCounter
	fetchDuration   gometrics.Timer
	consistentGauge gometrics.Gauge
	boardRows       gometrics.Gauge
	statusWriteErrs gometrics.Counter
)

func init() {
	ns := gometrics.NewNamespace("reconciler", "monitor", nil)
	cycles = ns.NewLabeledCounter("cycles", "The number of poll cycles by outcome", "outcome")
	for _, o := range []string{
		OutcomeConsistent,
		OutcomeInconsistent,
		OutcomeFetchError,
		OutcomeInvalid,
		OutcomeError,
	} {
		cycles.WithValues(o).Inc(0)
	}
	fetchDuration = ns.NewTimer("fetch", "The number of seconds each snapshot fetch takes")
	consistentGauge = ns.NewGauge("consistent", "Whether the last reconciled snapshot was consistent", gometrics.Unit("bool"))
	boardRows = ns.NewGauge("board_rows", "The number of records on the board", gometrics.Total)
	statusWriteErrs = ns.NewCounter("status_write_errors", "The total number of failed status block writes")
	gometrics.Register(ns)
}

// Outcome classifies a poll result.
func Outcome(res poller.PollResult) string {
	if res.Err == nil {
		if res.Consistent {
			return OutcomeConsistent
		}
		return OutcomeInconsistent
	}

	var ferr *httpsource.FetchError
	if errors.As(res.Err, &ferr) {
		return OutcomeFetchError
	}
	var verr *reconcile.ValidationError
	if errors.As(res.Err, &verr) {
		return OutcomeInvalid
	}
	return OutcomeError
}

// Recorder records cycle metrics. It implements writer.Writer.
type Recorder struct{}

// Write records one poll result. It never fails.
func (Recorder) Write(res poller.PollResult) error {
	cycles.WithValues(Outcome(res)).Inc()
	if res.Took > 0 {
		fetchDuration.Update(res.Took)
	}
	if res.Err == nil {
		if res.Consistent {
			consistentGauge.Set(1)
		} else {
			consistentGauge.Set(0)
		}
	}
	return nil
}

// BoardRows sets the board size gauge.
func BoardRows(n int) { boardRows.Set(float64(n)) }

// StatusWriteFailed counts one failed status block write.
func StatusWriteFailed() { statusWriteErrs.Inc() }

// Handler serves the Prometheus exposition.
func Handler() http.Handler { return gometrics.Handler() }
