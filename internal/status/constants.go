// internal/status/constants.go
package status

// Reconciliation status block layout.
// These values define the register protocol and MUST NOT be configurable.

// SlotsPerMonitor is the fixed number of registers per monitor block.
const SlotsPerMonitor = 20

// Live slots.
const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
)

// Slots 3-10 are reserved and written as zero.
const (
	SlotReservedStart = 3
	SlotReservedEnd   = 10
)

// Monitor name lives at the end of the block, two ASCII bytes per register.
const (
	SlotNameStart = 11
	SlotNameSlots = 8
	SlotNameEnd   = SlotNameStart + SlotNameSlots - 1
	NameMaxChars  = 16
)

// Health codes.
const (
	HealthUnknown      uint16 = 0 // boot, no cycle has completed
	HealthConsistent   uint16 = 1
	HealthInconsistent uint16 = 2
	HealthStale        uint16 = 3 // last cycle failed; counters unknown
)

// Last error codes below 100 are internal; 100-599 are HTTP statuses.
const (
	ErrorNone       uint16 = 0
	ErrorTransport  uint16 = 1
	ErrorValidation uint16 = 2
	ErrorGeneric    uint16 = 3
)

// SecondsInErrorMax is where the seconds counter saturates.
const SecondsInErrorMax = 65535
