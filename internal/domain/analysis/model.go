package analysis

import (
	"time"

	"subtrack-go/internal/domain/subscription"
)

// fallbackCategory is the bucket for subscriptions without a resolvable
// category, matching the label the frontend expects.
const fallbackCategory = "Sonstiges"

// upcomingWindowDays is the lookahead for the upcoming-payments list.
const upcomingWindowDays = 30

// SubscriptionCost is the slice of a subscription the analysis needs.
type SubscriptionCost struct {
	ID              string
	Name            string
	Price           float64
	BillingCycle    subscription.BillingCycle
	CategoryName    string
	NextBillingDate time.Time
}

type UpcomingPayment struct {
	SubscriptionID   string
	SubscriptionName string
	DueDate          time.Time
	// Amount is the raw per-cycle price, not the monthly equivalent.
	Amount float64
}

type CostAnalysis struct {
	TotalMonthly     float64
	TotalYearly      float64
	PerPersonMonthly float64
	PerPersonYearly  float64
	ByCategory       map[string]float64
	UpcomingPayments []UpcomingPayment
}
