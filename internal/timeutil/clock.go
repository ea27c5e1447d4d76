package timeutil

import (
	"sync"
	"time"
)

// Location is the zone used for paid dates and report headers. UTC unless
// SetLocation is called at startup.
var Location = time.UTC

// SetLocation loads an IANA zone name, falling back to UTC.
func SetLocation(name string) error {
	if name == "" {
		Location = time.UTC
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		Location = time.UTC
		return err
	}
	Location = loc
	return nil
}

// Now returns the current time in the configured location
func Now() time.Time {
	return time.Now().In(Location)
}

// Clock is injected wherever a timestamp ends up in the ledger.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return Now() }

// FixedClock returns a settable instant. Safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
	ReceiptLayout  = "02-Jan-2006"
)
