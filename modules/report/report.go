// Package report aggregates the business data into the owner's dashboard
// numbers. Sums are computed from the stored records; profit per sale was
// fixed at recording time, so historical reports survive price changes.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanhq/dukaan/modules/expense"
	"github.com/dukaanhq/dukaan/modules/inventory"
	"github.com/dukaanhq/dukaan/modules/sales"
)

// Summary is the aggregate view over a time window. Stock value is always
// current; the window only bounds sales and expenses.
type Summary struct {
	Revenue            float64            `json:"revenue"`
	CostOfGoods        float64            `json:"cost_of_goods"`
	GrossProfit        float64            `json:"gross_profit"`
	TotalExpenses      float64            `json:"total_expenses"`
	NetProfit          float64            `json:"net_profit"`
	ProfitMargin       float64            `json:"profit_margin"`
	StockValue         float64            `json:"stock_value"`
	SalesCount         int                `json:"sales_count"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}

// Service computes summaries over the per-user stores.
type Service struct {
	sales    sales.Store
	expenses expense.Store
	stocks   inventory.Store
}

// NewService wires a report service over the three stores.
func NewService(salesStore sales.Store, expenseStore expense.Store, stockStore inventory.Store) *Service {
	if salesStore == nil || expenseStore == nil || stockStore == nil {
		panic("report: all stores are required")
	}
	return &Service{sales: salesStore, expenses: expenseStore, stocks: stockStore}
}

// Summary aggregates the user's data over [from, to). Zero bounds are open.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error) {
	soldItems, err := s.sales.ListBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	spentItems, err := s.expenses.ListBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	stockItems, err := s.stocks.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load stocks: %w", err)
	}

	summary := &Summary{
		SalesCount:         len(soldItems),
		ExpensesByCategory: map[string]float64{},
	}
	for _, sale := range soldItems {
		summary.Revenue += sale.Quantity * sale.SoldPrice
		summary.CostOfGoods += sale.Quantity * sale.ActualPrice
		summary.GrossProfit += sale.Profit
	}
	for _, item := range spentItems {
		summary.TotalExpenses += item.Amount
		summary.ExpensesByCategory[item.Category] += item.Amount
	}
	for _, stock := range stockItems {
		summary.StockValue += stock.Value()
	}

	summary.NetProfit = summary.GrossProfit - summary.TotalExpenses
	if summary.Revenue > 0 {
		summary.ProfitMargin = summary.NetProfit / summary.Revenue * 100
	}
	return summary, nil
}
