package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/logger"
	"github.com/dukaanhq/dukaan/pkg/mailer"
)

// Reconciler is the scheduled job that demotes lapsed entitlements. Access
// checks trust the stored status literally, so without this job a trial or
// paid period would outlive its end date.
type Reconciler struct {
	store    entitlement.Store
	mail     mailer.Mailer
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

// NewReconciler creates a reconciler that runs every interval.
func NewReconciler(store entitlement.Store, mail mailer.Mailer, log *slog.Logger, interval time.Duration) *Reconciler {
	if store == nil {
		panic("billing: entitlement store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if mail == nil {
		mail = mailer.NewNoop(log)
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reconciler{
		store:    store,
		mail:     mail,
		log:      log,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run reconciles once immediately, then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	log := r.log.With(logger.Component("entitlement-reconciler"))
	log.InfoContext(ctx, "reconciler started", slog.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if n, err := r.ReconcileOnce(ctx); err != nil {
			log.ErrorContext(ctx, "reconcile pass failed", logger.Error(err))
		} else if n > 0 {
			log.InfoContext(ctx, "entitlements expired", slog.Int("count", n))
		}

		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "reconciler stopped")
			return
		case <-ticker.C:
		}
	}
}

// ReconcileOnce finds every record whose trial or paid period has run out and
// moves it to expired. Per-record failures are logged and skipped so one bad
// document cannot wedge the sweep.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	now := r.now()
	lapsed, err := r.store.ListLapsed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list lapsed records: %w", err)
	}

	expired := 0
	for i := range lapsed {
		record := &lapsed[i]
		if !record.Lapsed(now) {
			continue
		}
		if err := record.Expire(); err != nil {
			r.log.WarnContext(ctx, "cannot expire record", logger.Error(err),
				logger.UserID(record.UserID.String()))
			continue
		}
		if err := r.store.Update(ctx, record); err != nil {
			r.log.WarnContext(ctx, "persist expiry failed", logger.Error(err),
				logger.UserID(record.UserID.String()))
			continue
		}
		expired++
		r.notifyExpiry(ctx, record)
	}
	return expired, nil
}

func (r *Reconciler) notifyExpiry(ctx context.Context, record *entitlement.Record) {
	if record.Email == "" {
		return
	}
	msg := mailer.Message{
		To:       record.Email,
		Subject:  "Your subscription has expired",
		BodyHTML: "<p>Your access has ended. Renew your subscription to keep managing your business data.</p>",
		Tag:      "subscription-expired",
	}
	if err := r.mail.Send(ctx, msg); err != nil {
		r.log.WarnContext(ctx, "expiry email failed", logger.Error(err),
			logger.UserID(record.UserID.String()))
	}
}
