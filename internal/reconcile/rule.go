// internal/reconcile/rule.go
package reconcile

import (
	"fmt"
	"strings"
)

// Variant names a deployment shape of the counter snapshot.
type Variant string

const (
	// VariantA reconciles sent payments against the EPLF log.
	VariantA Variant = "a"
	// VariantB reconciles both sides' logs and validated totals.
	VariantB Variant = "b"
)

// ParseVariant accepts "a"/"b" in any case.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantA:
		return VariantA, nil
	case VariantB:
		return VariantB, nil
	}
	return "", fmt.Errorf("reconcile: unknown variant %q", s)
}

// Rule is the reconciliation predicate of one variant.
type Rule interface {
	Variant() Variant
	// Columns lists the counters in display order. All are required.
	Columns() []string
	// Evaluate reports whether the counters agree. A snapshot missing
	// any column, or holding a negative one, yields false and a *ValidationError.
	Evaluate(s Snapshot) (bool, error)
}

// RuleFor returns the rule of v.
func RuleFor(v Variant) (Rule, error) {
	switch v {
	case VariantA:
		return ruleA{}, nil
	case VariantB:
		return ruleB{}, nil
	}
	return nil, fmt.Errorf("reconcile: unknown variant %q", string(v))
}

// Evaluate is RuleFor(v).Evaluate(s).
func Evaluate(v Variant, s Snapshot) (bool, error) {
	r, err := RuleFor(v)
	if err != nil {
		return false, err
	}
	return r.Evaluate(s)
}

// requireCounters copies the named counters, in order, failing on the first
// absent or negative one. Rules rely on every counter being >= 0 so their
// differences cannot wrap.
func requireCounters(s Snapshot, names []string) ([]int64, error) {
	out := make([]int64, len(names))
	for i, n := range names {
		v, err := s.Get(n)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, &ValidationError{Field: n, Reason: fmt.Sprintf("negative count: %d", v)}
		}
		out[i] = v
	}
	return out, nil
}

// ---- variant A ----

var columnsA = []string{EplfPaymentAll, EplfLogAll, EplfLogFaulty, EplfLogValidated, ZdPaymentAll}

type paymentCounters struct {
	eplfPaymentAll   int64
	eplfLogAll       int64
	eplfLogFaulty    int64
	eplfLogValidated int64
	zdPaymentAll     int64
}

// consistent: every non-faulty log entry arrived as a payment, and every
// payment was validated.
func (c paymentCounters) consistent() bool {
	sentIsReceived := c.zdPaymentAll == c.eplfLogAll-c.eplfLogFaulty
	validated := c.zdPaymentAll == c.eplfLogValidated
	return sentIsReceived && validated
}

type ruleA struct{}

func (ruleA) Variant() Variant  { return VariantA }
func (ruleA) Columns() []string { return append([]string(nil), columnsA...) }

func (ruleA) Evaluate(s Snapshot) (bool, error) {
	v, err := requireCounters(s, columnsA)
	if err != nil {
		return false, err
	}
	c := paymentCounters{
		eplfPaymentAll:   v[0],
		eplfLogAll:       v[1],
		eplfLogFaulty:    v[2],
		eplfLogValidated: v[3],
		zdPaymentAll:     v[4],
	}
	return c.consistent(), nil
}

// ---- variant B ----

var columnsB = []string{
	EplfPaymentAll, ZdPaymentAll, EplfLogAll, ZdLogAll,
	ZdInvalidLogAll, EplfLogValidated, ZdLogValidated,
}

type ledgerCounters struct {
	eplfPaymentAll   int64
	zdPaymentAll     int64
	eplfLogAll       int64
	zdLogAll         int64
	zdInvalidLogAll  int64
	eplfLogValidated int64
	zdLogValidated   int64
}

// consistent: the EPLF log equals ZD's valid plus invalid log, and the
// payment and validated totals agree on both sides.
func (c ledgerCounters) consistent() bool {
	logsMatch := c.eplfLogAll-c.zdLogAll == c.zdInvalidLogAll
	validated := c.zdPaymentAll == c.eplfLogValidated && c.eplfLogValidated == c.zdLogValidated
	return logsMatch && validated
}

type ruleB struct{}

func (ruleB) Variant() Variant  { return VariantB }
func (ruleB) Columns() []string { return append([]string(nil), columnsB...) }

func (ruleB) Evaluate(s Snapshot) (bool, error) {
	v, err := requireCounters(s, columnsB)
	if err != nil {
		return false, err
	}
	c := ledgerCounters{
		eplfPaymentAll:   v[0],
		zdPaymentAll:     v[1],
		eplfLogAll:       v[2],
		zdLogAll:         v[3],
		zdInvalidLogAll:  v[4],
		eplfLogValidated: v[5],
		zdLogValidated:   v[6],
	}
	return c.consistent(), nil
}
