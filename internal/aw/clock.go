package aw

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Injected so tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random UUID run identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
