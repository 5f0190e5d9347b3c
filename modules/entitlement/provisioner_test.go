package entitlement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/entitlement"
)

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()

	t.Run("creates a trial record on first sight", func(t *testing.T) {
		t.Parallel()
		store := entitlement.NewMemoryStore()
		provisioner := entitlement.NewProvisioner(store)

		identity := entitlement.Identity{
			UserID:      uuid.New(),
			Email:       "owner@shop.example",
			DisplayName: "Shop Owner",
			PhotoURL:    "https://cdn.example/owner.png",
		}

		before := time.Now().UTC()
		record, err := provisioner.Provision(t.Context(), identity)
		require.NoError(t, err)

		assert.Equal(t, identity.UserID, record.UserID)
		assert.Equal(t, identity.Email, record.Email)
		assert.Equal(t, identity.DisplayName, record.DisplayName)
		assert.Equal(t, entitlement.StatusTrial, record.Status)
		assert.True(t, record.Migrated)

		wantEnd := before.AddDate(0, 0, entitlement.TrialPeriodDays)
		assert.WithinDuration(t, wantEnd, record.TrialEndsAt, time.Minute)
		assert.True(t, record.IsActiveAt(before))
	})

	t.Run("idempotent for an existing user", func(t *testing.T) {
		t.Parallel()
		store := entitlement.NewMemoryStore()
		provisioner := entitlement.NewProvisioner(store)

		identity := entitlement.Identity{UserID: uuid.New(), Email: "owner@shop.example"}

		first, err := provisioner.Provision(t.Context(), identity)
		require.NoError(t, err)

		second, err := provisioner.Provision(t.Context(), identity)
		require.NoError(t, err)

		assert.Equal(t, first.TrialEndsAt, second.TrialEndsAt)
		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})

	t.Run("does not reset an activated record", func(t *testing.T) {
		t.Parallel()
		store := entitlement.NewMemoryStore()
		provisioner := entitlement.NewProvisioner(store)

		identity := entitlement.Identity{UserID: uuid.New(), Email: "owner@shop.example"}

		record, err := provisioner.Provision(t.Context(), identity)
		require.NoError(t, err)

		now := time.Now().UTC()
		require.NoError(t, record.Activate("sub_1", now, 30*24*time.Hour))
		require.NoError(t, store.Update(t.Context(), record))

		again, err := provisioner.Provision(t.Context(), identity)
		require.NoError(t, err)
		assert.Equal(t, entitlement.StatusActive, again.Status)
		assert.Equal(t, "sub_1", again.ProviderSubscriptionID)
	})

	t.Run("rejects a missing user id", func(t *testing.T) {
		t.Parallel()
		provisioner := entitlement.NewProvisioner(entitlement.NewMemoryStore())

		_, err := provisioner.Provision(t.Context(), entitlement.Identity{Email: "owner@shop.example"})
		assert.ErrorIs(t, err, entitlement.ErrMissingUserID)
	})
}
