package subscription

import "time"

type Plan string

const (
	PlanHobby Plan = "hobby"
	PlanPro   Plan = "pro"
	PlanTeam  Plan = "team"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

type Subscription struct {
	UserID           string    `json:"userId" db:"user_id"`
	Plan             Plan      `json:"plan" db:"plan"`
	Status           Status    `json:"status" db:"status"`
	CurrentPeriodEnd time.Time `json:"currentPeriodEnd" db:"current_period_end"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// HobbyPeriod is how long the free default subscription stays valid
// before it is re-materialized on read.
const HobbyPeriod = 365 * 24 * time.Hour

// PaidPeriod is the billing period granted by a completed checkout.
const PaidPeriod = 30 * 24 * time.Hour

// Default is the subscription every user holds until a checkout upgrades it.
func Default(userID string, now time.Time) Subscription {
	return Subscription{
		UserID:           userID,
		Plan:             PlanHobby,
		Status:           StatusActive,
		CurrentPeriodEnd: now.Add(HobbyPeriod),
		UpdatedAt:        now,
	}
}

// ParsePlan maps a wire value to a known plan.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(s) {
	case PlanHobby, PlanPro, PlanTeam:
		return Plan(s), true
	}
	return "", false
}

// MonthlyLimit returns the number of generations a plan allows per billing
// month. ok is false for unlimited plans.
func (p Plan) MonthlyLimit() (limit int, ok bool) {
	switch p {
	case PlanHobby:
		return 10, true
	case PlanPro:
		return 2000, true
	default:
		return 0, false
	}
}

// Expired reports whether a canceled subscription has run past its paid
// period and should fall back to the hobby plan.
func (s Subscription) Expired(now time.Time) bool {
	return s.Status == StatusCanceled && s.CurrentPeriodEnd.Before(now)
}
