package luckbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod selects the trailing window of a financial summary
type ReportPeriod string

const (
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
	PeriodYearly  ReportPeriod = "yearly"
)

// Days returns the window length of the period
func (p ReportPeriod) Days() (int, error) {
	switch p {
	case PeriodWeekly:
		return 7, nil
	case PeriodMonthly:
		return 30, nil
	case PeriodYearly:
		return 365, nil
	}
	return 0, ErrInvalidPeriod.WithDetailsf("period=%q", p)
}

// FinancialSummary aggregates the completed appointments of one window
type FinancialSummary struct {
	Period                 ReportPeriod                      `json:"period"`
	WindowStart            time.Time                         `json:"window_start"`
	WindowEnd              time.Time                         `json:"window_end"`
	Appointments           int                               `json:"appointments"`
	TotalRevenue           decimal.Decimal                   `json:"total_revenue"`
	TotalCost              decimal.Decimal                   `json:"total_cost"`
	TotalProfit            decimal.Decimal                   `json:"total_profit"`
	RevenueByPaymentMethod map[PaymentMethod]decimal.Decimal `json:"revenue_by_payment_method"`
}

// FinancialAggregator summarizes appointments relative to its clock
type FinancialAggregator struct {
	now func() time.Time
}

// NewFinancialAggregator creates an aggregator using the wall clock
func NewFinancialAggregator() *FinancialAggregator {
	return &FinancialAggregator{now: time.Now}
}

// NewFinancialAggregatorWithClock creates an aggregator with a fixed clock source
func NewFinancialAggregatorWithClock(now func() time.Time) *FinancialAggregator {
	if now == nil {
		now = time.Now
	}
	return &FinancialAggregator{now: now}
}

// SummarizeFinancials summarizes records against the wall clock
func SummarizeFinancials(records []AppointmentRecord, period ReportPeriod) (FinancialSummary, error) {
	return NewFinancialAggregator().Summarize(records, period)
}

// Summarize totals the past appointments whose calendar day lies in
// [today - days, today], both ends at local midnight of the clock's location.
// Upcoming appointments never count, whatever their date.
func (a *FinancialAggregator) Summarize(records []AppointmentRecord, period ReportPeriod) (FinancialSummary, error) {
	days, err := period.Days()
	if err != nil {
		return FinancialSummary{}, err
	}

	now := a.now()
	today := midnight(now)
	windowStart := today.AddDate(0, 0, -days)

	summary := FinancialSummary{
		Period:                 period,
		WindowStart:            windowStart,
		WindowEnd:              today,
		TotalRevenue:           decimal.Zero,
		TotalCost:              decimal.Zero,
		TotalProfit:            decimal.Zero,
		RevenueByPaymentMethod: make(map[PaymentMethod]decimal.Decimal),
	}

	for _, r := range records {
		if r.Status != StatusPast {
			continue
		}
		day := midnight(r.ScheduledAt.In(now.Location()))
		if day.Before(windowStart) || day.After(today) {
			continue
		}

		summary.Appointments++
		summary.TotalRevenue = summary.TotalRevenue.Add(r.Value)
		summary.TotalCost = summary.TotalCost.Add(r.Cost)

		current, ok := summary.RevenueByPaymentMethod[r.PaymentMethod]
		if !ok {
			current = decimal.Zero
		}
		summary.RevenueByPaymentMethod[r.PaymentMethod] = current.Add(r.Value)
	}

	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	return summary, nil
}
