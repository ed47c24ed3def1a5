// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only and reports every problem found.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	var errs []string
	m := cfg.Monitor

	// ------------------------------------------------------------
	// MONITOR IDENTITY
	// ------------------------------------------------------------

	if m.Name == "" {
		errs = append(errs, "monitor.name is required")
	}
	for i := 0; i < len(m.Name); i++ {
		if m.Name[i] > 0x7F {
			errs = append(errs, fmt.Sprintf("monitor %q: name must contain ASCII characters only", m.Name))
			break
		}
	}

	switch strings.ToLower(strings.TrimSpace(m.Variant)) {
	case "a", "b":
	default:
		errs = append(errs, fmt.Sprintf("monitor.variant %q: must be \"a\" or \"b\"", m.Variant))
	}

	// ------------------------------------------------------------
	// SOURCE + POLL TIMING
	// ------------------------------------------------------------

	u, err := url.Parse(m.Source.BaseURL)
	switch {
	case m.Source.BaseURL == "":
		errs = append(errs, "monitor.source.base_url is required")
	case err != nil:
		errs = append(errs, fmt.Sprintf("monitor.source.base_url: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Sprintf("monitor.source.base_url %q: scheme must be http or https", m.Source.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Sprintf("monitor.source.base_url %q: host is required", m.Source.BaseURL))
	}

	if m.Source.Path != "" && !strings.HasPrefix(m.Source.Path, "/") {
		errs = append(errs, fmt.Sprintf("monitor.source.path %q: must start with /", m.Source.Path))
	}
	if m.Poll.IntervalMs <= 0 {
		errs = append(errs, "monitor.poll.interval_ms must be > 0")
	}
	if m.Source.TimeoutMs <= 0 {
		errs = append(errs, "monitor.source.timeout_ms must be > 0")
	} else if m.Poll.IntervalMs > 0 && m.Source.TimeoutMs >= m.Poll.IntervalMs {
		// cycles must not overlap
		errs = append(errs, fmt.Sprintf(
			"monitor.source.timeout_ms (%d) must be < monitor.poll.interval_ms (%d)",
			m.Source.TimeoutMs, m.Poll.IntervalMs,
		))
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if m.Status.Enabled {
		if m.Status.Endpoint == "" {
			errs = append(errs, "monitor.status.endpoint is required when status is enabled")
		} else if _, _, err := net.SplitHostPort(m.Status.Endpoint); err != nil {
			errs = append(errs, fmt.Sprintf("monitor.status.endpoint %q: %v", m.Status.Endpoint, err))
		}
		if m.Status.TimeoutMs <= 0 {
			errs = append(errs, "monitor.status.timeout_ms must be > 0")
		}
		// base_slot * 20 registers must stay inside the 16-bit address space
		if uint32(m.Status.BaseSlot)*20+19 > 0xFFFF {
			errs = append(errs, fmt.Sprintf("monitor.status.base_slot %d: block exceeds register address space", m.Status.BaseSlot))
		}
	}

	// ------------------------------------------------------------
	// DASHBOARD + LOGGING
	// ------------------------------------------------------------

	if cfg.Dashboard.IsEnabled() {
		if _, _, err := net.SplitHostPort(cfg.Dashboard.Address); err != nil {
			errs = append(errs, fmt.Sprintf("dashboard.address %q: %v", cfg.Dashboard.Address, err))
		}
	}

	switch cfg.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q: must be trace, debug, info, warn or error", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q: must be console or json", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.New("config: " + strings.Join(errs, " | "))
	}
	return nil
}
