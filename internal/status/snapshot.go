// internal/status/snapshot.go
package status

// Snapshot represents exactly what the status writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// HealthName is the label used in logs and JSON.
func HealthName(h uint16) string {
	switch h {
	case HealthConsistent:
		return "consistent"
	case HealthInconsistent:
		return "inconsistent"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
