package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for new entities
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDs
type UUIDGenerator struct{}

// NewID returns a random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SequenceGenerator returns prefix1, prefix2, ... and is meant for tests
type SequenceGenerator struct {
	Prefix string
	n      int
}

// NewID returns the next identifier of the sequence
func (g *SequenceGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("%s%d", g.Prefix, g.n)
}

// Clock returns the current time as epoch milliseconds
type Clock func() int64

// SystemClock reads the wall clock
func SystemClock() int64 {
	return Millis(time.Now())
}

// FixedClock always returns ms
func FixedClock(ms int64) Clock {
	return func() int64 { return ms }
}

// Millis converts t to epoch milliseconds
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Time converts epoch milliseconds to a local time
func Time(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// Ptr returns a pointer to v, handy for optional timestamps
func Ptr[T any](v T) *T {
	return &v
}
