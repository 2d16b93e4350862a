package domain

import "time"

// Clock supplies the current instant to services and mappers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the process's local zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Patch is a sparse row patch keyed by column name.
type Patch map[string]any

// DateLayout is the YYYY-MM-DD calendar date format used by date columns.
const DateLayout = "2006-01-02"

// TimeLayout is the HH:MM:SS wall-clock format used by the attendance time column.
const TimeLayout = "15:04:05"
