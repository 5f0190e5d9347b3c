package migration_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/modules/migration"
	"github.com/dukaanhq/dukaan/pkg/logger"
)

func seedRecord(t *testing.T, records *entitlement.MemoryStore, migrated bool) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	record := &entitlement.Record{
		UserID:   userID,
		Email:    "owner@shop.example",
		Status:   entitlement.StatusTrial,
		Migrated: migrated,
	}
	require.NoError(t, records.Create(t.Context(), record))
	return userID
}

func legacyDoc(id string) migration.Document {
	return migration.Document{ID: id, Fields: map[string]any{"product": "Rice 5kg", "quantity": 2.0}}
}

func TestMigrator_Migrate(t *testing.T) {
	t.Parallel()

	t.Run("copies every dataset and marks the record migrated", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		data.SeedLegacy(migration.DatasetSales, legacyDoc("s1"), legacyDoc("s2"), legacyDoc("s3"))
		data.SeedLegacy(migration.DatasetStocks, legacyDoc("k1"), legacyDoc("k2"))
		data.SeedLegacy(migration.DatasetExpenses, legacyDoc("e1"))

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		assert.Len(t, data.Owned(userID, migration.DatasetSales), 3)
		assert.Len(t, data.Owned(userID, migration.DatasetStocks), 2)
		assert.Len(t, data.Owned(userID, migration.DatasetExpenses), 1)

		record, err := records.Get(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, record.Migrated)
	})

	t.Run("preserves original document ids", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		data.SeedLegacy(migration.DatasetSales, legacyDoc("original-id"))

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		owned := data.Owned(userID, migration.DatasetSales)
		require.Len(t, owned, 1)
		assert.Equal(t, "original-id", owned[0].ID)
	})

	t.Run("no-op for an already-migrated record", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, true)

		data.SeedLegacy(migration.DatasetSales, legacyDoc("s1"))

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		assert.Empty(t, data.Owned(userID, migration.DatasetSales))
	})

	t.Run("marks migrated even when there is nothing to copy", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		record, err := records.Get(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, record.Migrated)
	})

	t.Run("any owned document skips the whole migration", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		require.NoError(t, data.CopyOwned(t.Context(), userID, migration.DatasetSales,
			[]migration.Document{legacyDoc("mine")}))
		data.SeedLegacy(migration.DatasetStocks, legacyDoc("k1"), legacyDoc("k2"))
		data.SeedLegacy(migration.DatasetExpenses, legacyDoc("e1"))

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		// Owned data anywhere means the user is already partitioned: nothing
		// is copied, not even from legacy collections the user has no data in.
		assert.Len(t, data.Owned(userID, migration.DatasetSales), 1)
		assert.Empty(t, data.Owned(userID, migration.DatasetStocks))
		assert.Empty(t, data.Owned(userID, migration.DatasetExpenses))

		record, err := records.Get(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, record.Migrated)
	})

	t.Run("copies large datasets in bounded batches", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		total := migration.MaxBatchSize*2 + 57
		for i := 0; i < total; i++ {
			data.SeedLegacy(migration.DatasetExpenses, legacyDoc(fmt.Sprintf("e%d", i)))
		}

		migrator := migration.NewMigrator(records, data, logger.New())
		require.NoError(t, migrator.Migrate(t.Context(), userID))
		assert.Len(t, data.Owned(userID, migration.DatasetExpenses), total)
	})

	t.Run("interrupted migration leaves the flag unset", func(t *testing.T) {
		t.Parallel()
		records := entitlement.NewMemoryStore()
		data := migration.NewMemoryStore()
		userID := seedRecord(t, records, false)

		data.SeedLegacy(migration.DatasetSales, legacyDoc("s1"), legacyDoc("s2"), legacyDoc("s3"))
		data.SeedLegacy(migration.DatasetExpenses, legacyDoc("e1"))

		data.FailAfter = 2
		migrator := migration.NewMigrator(records, data, logger.New())
		require.Error(t, migrator.Migrate(t.Context(), userID))

		record, err := records.Get(t.Context(), userID)
		require.NoError(t, err)
		assert.False(t, record.Migrated)

		// The retry sees the partially copied sales and treats the user as
		// already partitioned: the flag is set, nothing more is copied.
		data.FailAfter = 0
		require.NoError(t, migrator.Migrate(t.Context(), userID))

		record, err = records.Get(t.Context(), userID)
		require.NoError(t, err)
		assert.True(t, record.Migrated)
		assert.Len(t, data.Owned(userID, migration.DatasetSales), 2)
		assert.Empty(t, data.Owned(userID, migration.DatasetExpenses))
	})
}
