package domain

import "time"

// BookingPolicy per-business override of the platform booking limits.
// Supports hierarchical configuration:
// 1. Service at a business (business_id, service_id)
// 2. Business-wide (business_id, NULL)
// Fields left nil fall back to the next level, then to the platform config.
type BookingPolicy struct {
	ID               int64
	BusinessID       int64
	ServiceID        *int64 // NULL = policy for all services of the business
	MaxAdvanceDays   *int
	MaxDailyBookings *int
	SlotStepMinutes  *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsBusinessWide returns true if the policy applies to every service of the business
func (p *BookingPolicy) IsBusinessWide() bool {
	return p.ServiceID == nil
}

// EffectiveLimits booking limits after merging overrides with platform defaults
type EffectiveLimits struct {
	MaxAdvanceDays   int
	MaxDailyBookings int
	SlotStepMinutes  int
}

// Merge applies non-nil overrides from policies in priority order (most specific first)
func (l EffectiveLimits) Merge(policies ...*BookingPolicy) EffectiveLimits {
	var advanceSet, dailySet, stepSet bool
	for _, p := range policies {
		if p == nil {
			continue
		}
		if !advanceSet && p.MaxAdvanceDays != nil {
			l.MaxAdvanceDays = *p.MaxAdvanceDays
			advanceSet = true
		}
		if !dailySet && p.MaxDailyBookings != nil {
			l.MaxDailyBookings = *p.MaxDailyBookings
			dailySet = true
		}
		if !stepSet && p.SlotStepMinutes != nil {
			l.SlotStepMinutes = *p.SlotStepMinutes
			stepSet = true
		}
	}
	return l
}
