package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account resolved from a Firebase sign-in
type User struct {
	ID          uuid.UUID `json:"id"`
	FirebaseUID string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	TargetRole  string    `json:"targetRole"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Subscription is the plan a user is on. Billing happens elsewhere; the
// service only reads plan and status to decide who gets assistant output.
type Subscription struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"userId"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Subscription plan constants
const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanProPlus = "pro_plus"
)

// Subscription status constants
const (
	SubStatusActive   = "active"
	SubStatusPastDue  = "past_due"
	SubStatusCanceled = "canceled"
	SubStatusTrialing = "trialing"
)

// PlanLevel returns a numeric level for plan comparison (higher = more features)
func PlanLevel(plan string) int {
	switch plan {
	case PlanPro:
		return 1
	case PlanProPlus:
		return 2
	default:
		return 0
	}
}

// EffectivePlan is the plan that applies right now. Lapsed or missing
// subscriptions fall back to free.
func (s *Subscription) EffectivePlan() string {
	if s == nil {
		return PlanFree
	}
	if s.Status != SubStatusActive && s.Status != SubStatusTrialing {
		return PlanFree
	}
	return s.Plan
}
