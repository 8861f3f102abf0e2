package domain

import "time"

// RedemptionStatus state of a customer's claim on a reward
type RedemptionStatus string

const (
	RedemptionActive  RedemptionStatus = "active"
	RedemptionPending RedemptionStatus = "pending" // locked to an appointment
	RedemptionUsed    RedemptionStatus = "used"
	RedemptionExpired RedemptionStatus = "expired"
)

// DiscountType how a reward reduces the price
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Reward a discount a customer can redeem
type Reward struct {
	ID            int64
	Name          string
	DiscountType  DiscountType
	DiscountValue float64
}

// Redemption a customer's claim on a reward, locked to at most one appointment at a time
type Redemption struct {
	ID            int64
	CustomerID    int64
	Status        RedemptionStatus
	AppointmentID *int64
	Reward        *Reward
	CreatedAt     time.Time
}

// IsUsable returns true if the redemption can be applied to a new appointment
func (r *Redemption) IsUsable() bool {
	return r.Status == RedemptionActive && r.Reward != nil
}
