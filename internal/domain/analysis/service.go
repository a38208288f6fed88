package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"subtrack-go/internal/domain/subscription"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// MonthlyEquivalent normalizes a per-cycle price to a monthly figure. A month
// has roughly 4.33 weeks.
func MonthlyEquivalent(price float64, cycle subscription.BillingCycle) float64 {
	switch cycle {
	case subscription.CycleWeekly:
		return price * 4.33
	case subscription.CycleQuarterly:
		return price / 3
	case subscription.CycleYearly:
		return price / 12
	default:
		return price
	}
}

// CostAnalysis aggregates the user's active subscriptions into monthly and
// yearly totals, a per-category breakdown, and payments due within the next
// 30 days. A missing user does not fail the analysis; the household size
// falls back to 1.
func (s *Service) CostAnalysis(ctx context.Context, userID string, householdSize *int) (CostAnalysis, error) {
	storedSize, err := s.repo.GetHouseholdSize(ctx, userID)
	if err != nil {
		return CostAnalysis{}, err
	}

	effectiveSize := 1
	switch {
	case householdSize != nil && *householdSize > 0:
		effectiveSize = *householdSize
	case storedSize > 0:
		effectiveSize = storedSize
	}

	subscriptions, err := s.repo.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return CostAnalysis{}, err
	}

	today := truncateToDay(s.now())
	windowEnd := today.AddDate(0, 0, upcomingWindowDays)

	totalMonthly := 0.0
	byCategory := make(map[string]float64)
	upcoming := make([]UpcomingPayment, 0)

	for _, sub := range subscriptions {
		monthly := MonthlyEquivalent(sub.Price, sub.BillingCycle)
		totalMonthly += monthly

		categoryName := sub.CategoryName
		if categoryName == "" {
			categoryName = fallbackCategory
		}
		byCategory[categoryName] += monthly

		due := truncateToDay(sub.NextBillingDate)
		if !due.Before(today) && !due.After(windowEnd) {
			upcoming = append(upcoming, UpcomingPayment{
				SubscriptionID:   sub.ID,
				SubscriptionName: sub.Name,
				DueDate:          due,
				Amount:           sub.Price,
			})
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	size := float64(effectiveSize)
	return CostAnalysis{
		TotalMonthly:     round2(totalMonthly),
		TotalYearly:      round2(totalMonthly * 12),
		PerPersonMonthly: round2(totalMonthly / size),
		PerPersonYearly:  round2(totalMonthly * 12 / size),
		ByCategory:       byCategory,
		UpcomingPayments: upcoming,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
