// Package decay converts raw point values into date-dependent decayed
// values. Everything here is pure: "today" is always an explicit
// parameter so historical backfills re-evaluate deterministically.
package decay

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Engine applies exponential decay with a configured e-folding constant
// measured in days.
type Engine struct {
	constantDays float64
}

// NewEngine builds a decay engine. The constant must be positive.
func NewEngine(constantDays float64) *Engine {
	if constantDays <= 0 {
		constantDays = 365
	}
	return &Engine{constantDays: constantDays}
}

// Factor returns e^(-days/constant) for the whole days elapsed between
// start and today, clamped to [0, 1]. Events that start after today
// decay nothing (factor 1); numeric underflow clamps to 0. The result is
// never NaN or infinite.
func (e *Engine) Factor(start, today time.Time) float64 {
	days := DaysBetween(start, today)
	if days <= 0 {
		return 1
	}

	f := math.Exp(-float64(days) / e.constantDays)
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Value applies the decay factor to a raw point value. The result never
// exceeds rawPoints.
func (e *Engine) Value(rawPoints float64, start, today time.Time) float64 {
	if rawPoints <= 0 {
		return 0
	}
	return rawPoints * e.Factor(start, today)
}

// Points rounds the decayed value up to whole points for publication, so
// any surviving fraction still counts.
func (e *Engine) Points(rawPoints float64, start, today time.Time) int64 {
	v := e.Value(rawPoints, start, today)
	if v <= 0 {
		return 0
	}
	return int64(math.Ceil(v))
}

// DaysBetween counts whole days from start to end, ignoring time of day.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(s).Hours() / hoursPerDay)
}
