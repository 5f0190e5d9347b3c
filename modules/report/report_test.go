package report_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/expense"
	"github.com/dukaanhq/dukaan/modules/inventory"
	"github.com/dukaanhq/dukaan/modules/report"
	"github.com/dukaanhq/dukaan/modules/sales"
)

type fixtures struct {
	sales    *sales.MemoryStore
	expenses *expense.MemoryStore
	stocks   *inventory.MemoryStore
	svc      *report.Service
	userID   uuid.UUID
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	f := fixtures{
		sales:    sales.NewMemoryStore(),
		expenses: expense.NewMemoryStore(),
		stocks:   inventory.NewMemoryStore(),
		userID:   uuid.New(),
	}
	f.svc = report.NewService(f.sales, f.expenses, f.stocks)
	return f
}

func (f fixtures) addSale(t *testing.T, quantity, actual, sold float64, date time.Time) {
	t.Helper()
	require.NoError(t, f.sales.Create(t.Context(), &sales.Sale{
		ID:          uuid.NewString(),
		UserID:      f.userID.String(),
		Product:     "Rice 5kg",
		Quantity:    quantity,
		ActualPrice: actual,
		SoldPrice:   sold,
		Profit:      (sold - actual) * quantity,
		PaymentMode: sales.PaymentCash,
		SaleDate:    date,
		Timestamp:   date,
	}))
}

func (f fixtures) addExpense(t *testing.T, category string, amount float64, at time.Time) {
	t.Helper()
	require.NoError(t, f.expenses.Create(t.Context(), &expense.Expense{
		ID:        uuid.NewString(),
		UserID:    f.userID.String(),
		Category:  category,
		Amount:    amount,
		Timestamp: at,
	}))
}

func TestService_Summary(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates revenue, costs, and expenses", func(t *testing.T) {
		t.Parallel()
		f := newFixtures(t)

		f.addSale(t, 4, 50, 65, now) // revenue 260, cost 200, profit 60
		f.addSale(t, 2, 30, 45, now) // revenue 90, cost 60, profit 30
		f.addExpense(t, "Rent", 100, now)
		f.addExpense(t, "Utilities", 40, now)
		f.addExpense(t, "Rent", 25, now)
		require.NoError(t, f.stocks.Create(t.Context(), &inventory.Stock{
			ID: uuid.NewString(), UserID: f.userID.String(), Product: "Rice 5kg",
			Quantity: 10, CostPrice: 50,
		}))

		summary, err := f.svc.Summary(t.Context(), f.userID, time.Time{}, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, 350.0, summary.Revenue)
		assert.Equal(t, 260.0, summary.CostOfGoods)
		assert.Equal(t, 90.0, summary.GrossProfit)
		assert.Equal(t, 165.0, summary.TotalExpenses)
		assert.Equal(t, -75.0, summary.NetProfit)
		assert.InDelta(t, -75.0/350.0*100, summary.ProfitMargin, 1e-9)
		assert.Equal(t, 500.0, summary.StockValue)
		assert.Equal(t, 2, summary.SalesCount)
		assert.Equal(t, map[string]float64{"Rent": 125, "Utilities": 40}, summary.ExpensesByCategory)
	})

	t.Run("time window bounds sales and expenses but not stock", func(t *testing.T) {
		t.Parallel()
		f := newFixtures(t)

		f.addSale(t, 1, 10, 20, now.AddDate(0, -2, 0))
		f.addSale(t, 1, 10, 20, now)
		f.addExpense(t, "Rent", 100, now.AddDate(0, -2, 0))
		f.addExpense(t, "Rent", 50, now)
		require.NoError(t, f.stocks.Create(t.Context(), &inventory.Stock{
			ID: uuid.NewString(), UserID: f.userID.String(), Product: "Sugar",
			Quantity: 3, CostPrice: 10,
		}))

		from := now.AddDate(0, -1, 0)
		summary, err := f.svc.Summary(t.Context(), f.userID, from, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, 20.0, summary.Revenue)
		assert.Equal(t, 50.0, summary.TotalExpenses)
		assert.Equal(t, 1, summary.SalesCount)
		assert.Equal(t, 30.0, summary.StockValue)
	})

	t.Run("empty data yields a zero summary with no division by zero", func(t *testing.T) {
		t.Parallel()
		f := newFixtures(t)

		summary, err := f.svc.Summary(t.Context(), f.userID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Zero(t, summary.Revenue)
		assert.Zero(t, summary.ProfitMargin)
		assert.Empty(t, summary.ExpensesByCategory)
	})

	t.Run("only the user's own data is counted", func(t *testing.T) {
		t.Parallel()
		f := newFixtures(t)

		other := uuid.New()
		require.NoError(t, f.sales.Create(t.Context(), &sales.Sale{
			ID: uuid.NewString(), UserID: other.String(), Quantity: 5, SoldPrice: 100,
			SaleDate: now, Timestamp: now,
		}))

		summary, err := f.svc.Summary(t.Context(), f.userID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Zero(t, summary.Revenue)
		assert.Zero(t, summary.SalesCount)
	})
}
