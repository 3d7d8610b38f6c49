// Package dashboard is the read-only sales summary screen.
package dashboard

import (
	"context"
	"fmt"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/shopspring/decimal"
)

type API interface {
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type Period struct {
	Label   string
	Orders  int
	Revenue string
}

type View struct {
	Periods      []Period
	RecentOrders []models.Order
}

func Load(ctx context.Context, api API, n notify.Notifier) (*View, error) {
	if n == nil {
		n = notify.Discard
	}
	a, err := api.Analytics(ctx)
	if err != nil {
		notify.Error(n, "Failed to load analytics")
		return nil, fmt.Errorf("load analytics: %w", err)
	}
	return &View{
		Periods: []Period{
			period("Today", a.Today),
			period("This Week", a.Week),
			period("This Month", a.Month),
		},
		RecentOrders: a.RecentOrders,
	}, nil
}

func period(label string, s models.PeriodSummary) Period {
	return Period{Label: label, Orders: s.Orders, Revenue: FormatMoney(s.Revenue)}
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
