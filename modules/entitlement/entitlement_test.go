package entitlement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/entitlement"
)

func TestRecord_IsActiveAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("trial grants access until trial end", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:      entitlement.StatusTrial,
			TrialEndsAt: now.AddDate(0, 0, 7),
		}

		assert.True(t, record.IsActiveAt(now))
		assert.True(t, record.IsActiveAt(record.TrialEndsAt))
		assert.False(t, record.IsActiveAt(record.TrialEndsAt.Add(time.Second)))
	})

	t.Run("active is trusted literally even past period end", func(t *testing.T) {
		t.Parallel()
		end := now.AddDate(0, 0, -10)
		record := &entitlement.Record{
			Status:           entitlement.StatusActive,
			CurrentPeriodEnd: &end,
		}

		assert.True(t, record.IsActiveAt(now))
	})

	t.Run("expired and cancelled never grant access", func(t *testing.T) {
		t.Parallel()
		for _, status := range []entitlement.Status{entitlement.StatusExpired, entitlement.StatusCancelled} {
			record := &entitlement.Record{Status: status, TrialEndsAt: now.AddDate(0, 0, 7)}
			assert.False(t, record.IsActiveAt(now), "status %s", status)
		}
	})
}

func TestRecord_DaysRemainingAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("trial counts toward trial end, rounding up", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:      entitlement.StatusTrial,
			TrialEndsAt: now.Add(36 * time.Hour), // 1.5 days
		}

		assert.Equal(t, 2, record.DaysRemainingAt(now))
	})

	t.Run("active counts toward period end", func(t *testing.T) {
		t.Parallel()
		end := now.Add(30 * 24 * time.Hour)
		record := &entitlement.Record{
			Status:           entitlement.StatusActive,
			CurrentPeriodEnd: &end,
		}

		assert.Equal(t, 30, record.DaysRemainingAt(now))
	})

	t.Run("clamps at zero, never negative", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:      entitlement.StatusTrial,
			TrialEndsAt: now.AddDate(0, 0, -3),
		}

		assert.Equal(t, 0, record.DaysRemainingAt(now))
	})

	t.Run("zero without a period end", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{Status: entitlement.StatusExpired}
		assert.Equal(t, 0, record.DaysRemainingAt(now))
	})

	t.Run("monotonically non-increasing as time advances", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:      entitlement.StatusTrial,
			TrialEndsAt: now.AddDate(0, 0, 15),
		}

		prev := record.DaysRemainingAt(now)
		for at := now; at.Before(now.AddDate(0, 0, 20)); at = at.Add(7 * time.Hour) {
			days := record.DaysRemainingAt(at)
			assert.LessOrEqual(t, days, prev)
			assert.GreaterOrEqual(t, days, 0)
			prev = days
		}
	})
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to entitlement.Status }{
		{entitlement.StatusTrial, entitlement.StatusActive},
		{entitlement.StatusTrial, entitlement.StatusExpired},
		{entitlement.StatusActive, entitlement.StatusActive},
		{entitlement.StatusActive, entitlement.StatusExpired},
		{entitlement.StatusActive, entitlement.StatusCancelled},
		{entitlement.StatusExpired, entitlement.StatusActive},
		{entitlement.StatusCancelled, entitlement.StatusActive},
	}
	for _, tc := range allowed {
		assert.True(t, entitlement.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to entitlement.Status }{
		{entitlement.StatusActive, entitlement.StatusTrial},
		{entitlement.StatusExpired, entitlement.StatusTrial},
		{entitlement.StatusExpired, entitlement.StatusCancelled},
		{entitlement.StatusCancelled, entitlement.StatusTrial},
	}
	for _, tc := range forbidden {
		assert.False(t, entitlement.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRecord_Activate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	period := 30 * 24 * time.Hour

	t.Run("trial to active sets a fresh period", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{Status: entitlement.StatusTrial, TrialEndsAt: now.AddDate(0, 0, 10)}

		require.NoError(t, record.Activate("sub_1", now, period))
		assert.Equal(t, entitlement.StatusActive, record.Status)
		assert.Equal(t, "sub_1", record.ProviderSubscriptionID)
		require.NotNil(t, record.CurrentPeriodStart)
		require.NotNil(t, record.CurrentPeriodEnd)
		assert.Equal(t, now, *record.CurrentPeriodStart)
		assert.Equal(t, now.Add(period), *record.CurrentPeriodEnd)
		assert.False(t, record.CancelAtPeriodEnd)
		assert.True(t, !record.CurrentPeriodEnd.Before(*record.CurrentPeriodStart))
	})

	t.Run("fresh activation clears pending cancellation", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:                 entitlement.StatusActive,
			ProviderSubscriptionID: "sub_1",
			CancelAtPeriodEnd:      true,
		}

		require.NoError(t, record.Activate("sub_1", now, period))
		assert.False(t, record.CancelAtPeriodEnd)
	})

	t.Run("rejects mismatched subscription id", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:                 entitlement.StatusActive,
			ProviderSubscriptionID: "sub_1",
		}

		err := record.Activate("sub_other", now, period)
		assert.ErrorIs(t, err, entitlement.ErrSubscriptionMismatch)
		assert.True(t, record.CancelAtPeriodEnd == false)
	})
}

func TestRecord_MarkCancelling(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 20)

	t.Run("sets the flag and keeps access", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{
			Status:                 entitlement.StatusActive,
			ProviderSubscriptionID: "sub_1",
			CurrentPeriodEnd:       &end,
		}

		require.NoError(t, record.MarkCancelling())
		assert.True(t, record.CancelAtPeriodEnd)
		assert.Equal(t, entitlement.StatusActive, record.Status)
		assert.Equal(t, end, *record.CurrentPeriodEnd)
		assert.True(t, record.IsActiveAt(now))
	})

	t.Run("requires an active subscription", func(t *testing.T) {
		t.Parallel()
		record := &entitlement.Record{Status: entitlement.StatusTrial}
		assert.ErrorIs(t, record.MarkCancelling(), entitlement.ErrNotActive)

		record = &entitlement.Record{Status: entitlement.StatusActive}
		assert.ErrorIs(t, record.MarkCancelling(), entitlement.ErrNoProviderSubscription)
	})
}

func TestRecord_Lapsed(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name   string
		record entitlement.Record
		want   bool
	}{
		{"trial within window", entitlement.Record{Status: entitlement.StatusTrial, TrialEndsAt: future}, false},
		{"trial past window", entitlement.Record{Status: entitlement.StatusTrial, TrialEndsAt: past}, true},
		{"active within period", entitlement.Record{Status: entitlement.StatusActive, CurrentPeriodEnd: &future}, false},
		{"active past period", entitlement.Record{Status: entitlement.StatusActive, CurrentPeriodEnd: &past}, true},
		{"expired never lapses again", entitlement.Record{Status: entitlement.StatusExpired, TrialEndsAt: past}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.record.Lapsed(now))
		})
	}
}

func TestMemoryStore_CreateIsUpsert(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := entitlement.NewMemoryStore()
	userID := uuid.New()

	first := &entitlement.Record{UserID: userID, Status: entitlement.StatusTrial, Email: "a@example.com"}
	require.NoError(t, store.Create(ctx, first))

	second := &entitlement.Record{UserID: userID, Status: entitlement.StatusActive, Email: "b@example.com"}
	require.NoError(t, store.Create(ctx, second))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.StatusTrial, got.Status)
	assert.Equal(t, "a@example.com", got.Email)
}
