// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultPath             = "/update_data"
	DefaultIntervalMs       = 60000
	DefaultSourceTimeoutMs  = 10000
	DefaultStatusTimeoutMs  = 2000
	DefaultDashboardAddress = "0.0.0.0:8080"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"

	// MonitorNameMaxChars matches the status block name field.
	MonitorNameMaxChars = 16
)

// Defaults fills zero values that Validate would otherwise reject.
// It only touches fields a config author may leave out.
func Defaults(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Monitor

	if m.Source.Path == "" {
		m.Source.Path = DefaultPath
	}
	if m.Poll.IntervalMs == 0 {
		m.Poll.IntervalMs = DefaultIntervalMs
	}
	if m.Source.TimeoutMs == 0 {
		m.Source.TimeoutMs = DefaultSourceTimeoutMs
		// Keep the fetch inside one interval.
		if m.Source.TimeoutMs >= m.Poll.IntervalMs {
			m.Source.TimeoutMs = m.Poll.IntervalMs / 2
		}
	}
	if m.Status.Enabled && m.Status.TimeoutMs == 0 {
		m.Status.TimeoutMs = DefaultStatusTimeoutMs
	}
	if cfg.Dashboard.Address == "" {
		cfg.Dashboard.Address = DefaultDashboardAddress
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Monitor name:
	// - ASCII already validated
	// - Truncate to the status block name width
	if len(cfg.Monitor.Name) > MonitorNameMaxChars {
		cfg.Monitor.Name = cfg.Monitor.Name[:MonitorNameMaxChars]
	}
}
