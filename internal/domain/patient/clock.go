package patient

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Injected so that registration and order
// dates are deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator mints unique identifiers for plans and sessions. Injected so
// that copy and merge operations are deterministic under test.
type IDGenerator interface {
	NewID() uuid.UUID
}

// UUIDGenerator mints random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() uuid.UUID { return uuid.New() }

// Today formats the clock's current day as a date key.
func Today(c Clock) string {
	return c.Now().Format(DateKey)
}
