package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/logger"
)

// MaxBatchSize caps how many documents a single copy operation moves.
const MaxBatchSize = 400

// Dataset names one migratable business collection.
type Dataset string

const (
	DatasetSales    Dataset = "sales"
	DatasetStocks   Dataset = "stocks"
	DatasetExpenses Dataset = "expenses"
)

// Datasets lists every collection the migrator copies, in copy order.
var Datasets = []Dataset{DatasetSales, DatasetStocks, DatasetExpenses}

// Document is one legacy record with its original id preserved.
type Document struct {
	ID     any
	Fields map[string]any
}

// DataStore moves documents between the legacy layout and the per-user one.
type DataStore interface {
	// CountOwned reports how many documents the user already holds in the
	// per-user layout for the dataset.
	CountOwned(ctx context.Context, userID uuid.UUID, ds Dataset) (int64, error)

	// ListLegacy returns every document in the legacy (unpartitioned)
	// collection for the dataset.
	ListLegacy(ctx context.Context, ds Dataset) ([]Document, error)

	// CopyOwned writes the documents into the per-user layout for the
	// user, preserving ids. The write must be idempotent so an
	// interrupted migration can be retried.
	CopyOwned(ctx context.Context, userID uuid.UUID, ds Dataset, docs []Document) error
}

// Migrator moves a user's pre-partitioning business data into the per-user
// layout. It runs after authentication, before the user touches any business
// endpoint, and is a no-op for already-migrated users.
type Migrator struct {
	records entitlement.Store
	data    DataStore
	log     *slog.Logger
}

// NewMigrator wires a migrator over the given stores.
func NewMigrator(records entitlement.Store, data DataStore, log *slog.Logger) *Migrator {
	if records == nil {
		panic("migration: entitlement store is required")
	}
	if data == nil {
		panic("migration: data store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Migrator{records: records, data: data, log: log.With(logger.Component("migration"))}
}

// Migrate copies the user's legacy data into the per-user layout and marks
// the record migrated. The migrated flag is set only after every dataset has
// been copied, so a failure mid-way leaves the user eligible for a retry;
// copies preserve ids and are idempotent, so retries never duplicate data.
//
// The ownership check is deliberately coarse: documents in ANY of the user's
// collections mean the user is already on the per-user layout, and the whole
// migration is skipped. A retry after a partial copy therefore marks the
// record migrated without backfilling the remaining datasets.
func (m *Migrator) Migrate(ctx context.Context, userID uuid.UUID) error {
	record, err := m.records.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load entitlement record: %w", err)
	}
	if record.Migrated {
		return nil
	}

	for _, ds := range Datasets {
		owned, err := m.data.CountOwned(ctx, userID, ds)
		if err != nil {
			return fmt.Errorf("count owned %s: %w", ds, err)
		}
		if owned > 0 {
			if err := m.records.SetMigrated(ctx, userID); err != nil {
				return fmt.Errorf("mark migrated: %w", err)
			}
			return nil
		}
	}

	copied := 0
	for _, ds := range Datasets {
		n, err := m.copyDataset(ctx, userID, ds)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", ds, err)
		}
		copied += n
	}

	if err := m.records.SetMigrated(ctx, userID); err != nil {
		return fmt.Errorf("mark migrated: %w", err)
	}

	if copied > 0 {
		m.log.InfoContext(ctx, "legacy data migrated",
			logger.UserID(userID.String()), slog.Int("documents", copied))
	}
	return nil
}

func (m *Migrator) copyDataset(ctx context.Context, userID uuid.UUID, ds Dataset) (int, error) {
	docs, err := m.data.ListLegacy(ctx, ds)
	if err != nil {
		return 0, fmt.Errorf("list legacy documents: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	for start := 0; start < len(docs); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(docs))
		if err := m.data.CopyOwned(ctx, userID, ds, docs[start:end]); err != nil {
			return 0, fmt.Errorf("copy batch at offset %d: %w", start, err)
		}
	}
	return len(docs), nil
}

// ErrUnknownDataset indicates a dataset name outside the migratable set.
var ErrUnknownDataset = errors.New("unknown dataset")
