// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/counter-reconciler/internal/config"
	"github.com/tamzrod/counter-reconciler/internal/poller/httpsource"
	"github.com/tamzrod/counter-reconciler/internal/reconcile"
)

// Build constructs a Poller and its HTTP source from validated config.
// Nothing is dialled here; the first request happens on the first cycle.
func Build(m cfg.MonitorConfig) (*Poller, error) {
	variant, err := reconcile.ParseVariant(m.Variant)
	if err != nil {
		return nil, err
	}
	rule, err := reconcile.RuleFor(variant)
	if err != nil {
		return nil, err
	}

	src, err := httpsource.New(httpsource.Config{
		BaseURL: m.Source.BaseURL,
		Path:    m.Source.Path,
		Timeout: time.Duration(m.Source.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			Monitor:  m.Name,
			Interval: time.Duration(m.Poll.IntervalMs) * time.Millisecond,
			Rule:     rule,
		},
		src,
	)
}
