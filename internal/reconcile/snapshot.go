// internal/reconcile/snapshot.go
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Counter names reported by the backend.
const (
	EplfPaymentAll   = "eplf_payment_all"
	EplfLogAll       = "eplf_log_all"
	EplfLogFaulty    = "eplf_log_faulty"
	EplfLogValidated = "eplf_log_validated"
	ZdPaymentAll     = "zd_payment_all"
	ZdLogAll         = "zd_log_all"
	ZdInvalidLogAll  = "zd_invalid_log_all"
	ZdLogValidated   = "zd_log_validated"
)

// Snapshot is one poll cycle's view of the named running totals.
// A name absent from the map was not reported (or not usable).
type Snapshot map[string]int64

// Get returns the counter or a ValidationError if it is absent.
func (s Snapshot) Get(name string) (int64, error) {
	v, ok := s[name]
	if !ok {
		return 0, &ValidationError{Field: name, Reason: "missing"}
	}
	return v, nil
}

// Clone returns an independent copy.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DecodeSnapshot parses a flat JSON object of integer counters.
// Non-integer or negative values fail the whole decode; unknown fields are kept
// as long as they are integers and otherwise ignored.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("body is not a JSON object: %v", err)}
	}
	if raw == nil {
		return nil, &ValidationError{Reason: "body is null"}
	}

	known := make(map[string]struct{}, len(counterNames))
	for _, n := range counterNames {
		known[n] = struct{}{}
	}

	s := make(Snapshot, len(raw))
	for name, msg := range raw {
		v, err := decodeCounter(msg)
		if err != nil {
			if _, ok := known[name]; ok {
				return nil, &ValidationError{Field: name, Reason: err.Error()}
			}
			continue
		}
		s[name] = v
	}
	return s, nil
}

var counterNames = []string{
	EplfPaymentAll, EplfLogAll, EplfLogFaulty, EplfLogValidated,
	ZdPaymentAll, ZdLogAll, ZdInvalidLogAll, ZdLogValidated,
}

func decodeCounter(msg json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(msg)
	if bytes.Equal(trimmed, []byte("null")) {
		return 0, fmt.Errorf("null value")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("not a number: %s", trimmed)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("not an integer: %s", n)
	}
	if i < 0 {
		return 0, fmt.Errorf("negative count: %d", i)
	}
	return i, nil
}
