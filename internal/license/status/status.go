// Package status derives license lifecycle and usage pressure from a record
// and an instant. Nothing here reads the wall clock directly; the instant
// comes from an injected Clock so every caller can pin it.
package status

import (
	"math"
	"time"

	"nexuscomply/internal/license/models"
)

const (
	// ExpiringSoonDays is the inclusive window, in days, of the expiring-soon band.
	ExpiringSoonDays = 30
	// WarningPercent and CriticalPercent are the lower bounds of the usage bands.
	WarningPercent  = 70
	CriticalPercent = 90
)

const day = 24 * time.Hour

// Clock supplies "now".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Engine evaluates licenses against its clock.
type Engine struct {
	clock Clock
}

// New returns an Engine reading time from clock. A nil clock uses SystemClock.
func New(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	return &Engine{clock: clock}
}

// At returns an Engine frozen at now.
func At(now time.Time) *Engine {
	return New(ClockFunc(func() time.Time { return now }))
}

// Now returns the engine's current instant.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// IsExpired reports validTo < now.
func (e *Engine) IsExpired(validTo models.Date) bool {
	return validTo.Before(e.clock.Now())
}

// DaysUntilExpiry is ceil((validTo - now) / 1 day). It is zero or negative
// once the license has expired.
func (e *Engine) DaysUntilExpiry(validTo models.Date) int {
	delta := validTo.Sub(e.clock.Now())
	return int(math.Ceil(float64(delta) / float64(day)))
}

// IsExpiringSoon reports 0 < DaysUntilExpiry <= ExpiringSoonDays. It can never
// hold together with IsExpired because it needs a strictly positive day count.
func (e *Engine) IsExpiringSoon(validTo models.Date) bool {
	days := e.DaysUntilExpiry(validTo)
	return days > 0 && days <= ExpiringSoonDays
}

// Lifecycle classifies a license. Expiry dominates the active flag.
func (e *Engine) Lifecycle(l models.License) models.Lifecycle {
	switch {
	case e.IsExpired(l.ValidTo):
		return models.LifecycleExpired
	case l.Active:
		return models.LifecycleActive
	default:
		return models.LifecycleInactive
	}
}

// Describe computes every derived value of l at the engine's instant.
func (e *Engine) Describe(l models.License) models.Derived {
	return models.Derived{
		Lifecycle:       e.Lifecycle(l),
		Expired:         e.IsExpired(l.ValidTo),
		ExpiringSoon:    e.IsExpiringSoon(l.ValidTo),
		DaysUntilExpiry: e.DaysUntilExpiry(l.ValidTo),
		UsagePercent:    UsagePercent(l.CurrentUsage, l.MaxUsage),
		Pressure:        UsagePressure(l.CurrentUsage, l.MaxUsage),
	}
}

// UsagePercent is currentUsage / maxUsage * 100, or 0 when maxUsage is not positive.
func UsagePercent(currentUsage, maxUsage int) float64 {
	if maxUsage <= 0 {
		return 0
	}
	return float64(currentUsage) / float64(maxUsage) * 100
}

// UsagePressure bands the consumption ratio: >= 90% critical, >= 70% warning,
// else nominal. A non-positive maxUsage is degenerate and always critical.
// The comparison is done in integers so band edges are exact.
func UsagePressure(currentUsage, maxUsage int) models.Pressure {
	if maxUsage <= 0 {
		return models.PressureCritical
	}
	used := int64(currentUsage) * 100
	limit := int64(maxUsage)
	switch {
	case used >= CriticalPercent*limit:
		return models.PressureCritical
	case used >= WarningPercent*limit:
		return models.PressureWarning
	default:
		return models.PressureNominal
	}
}
