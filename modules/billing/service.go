package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/logger"
	"github.com/dukaanhq/dukaan/pkg/mailer"
)

// BillingPeriod is the length of one paid cycle. A verified payment extends
// entitlement by exactly this much from the moment of verification.
const BillingPeriod = 30 * 24 * time.Hour

// ServiceConfig carries the checkout parameters the service hands to clients
// and records against payments.
type ServiceConfig struct {
	// KeyID is the public half of the gateway key pair; the browser-side
	// checkout widget needs it to open.
	KeyID string `env:"RAZORPAY_KEY_ID,required"`
	// PlanAmount is the cycle price in the currency's smallest unit.
	PlanAmount int64 `env:"BILLING_PLAN_AMOUNT" envDefault:"49900"`
	// Currency is the ISO code payments are recorded in.
	Currency string `env:"BILLING_CURRENCY" envDefault:"INR"`
}

// CheckoutSession is everything a client needs to open the payment widget.
type CheckoutSession struct {
	SubscriptionID string `json:"subscriptionId"`
	CustomerID     string `json:"customerId"`
	KeyID          string `json:"keyId"`
}

// Service drives the subscription lifecycle: checkout, payment verification,
// and cancellation. All state lives in the entitlement store; the provider is
// the source of money movement only.
type Service struct {
	cfg      ServiceConfig
	store    entitlement.Store
	provider Provider
	verifier *SignatureVerifier
	mail     mailer.Mailer
	log      *slog.Logger
	now      func() time.Time
}

// NewService wires a billing service. The mailer is optional; without one,
// receipts are skipped.
func NewService(cfg ServiceConfig, store entitlement.Store, provider Provider, verifier *SignatureVerifier, mail mailer.Mailer, log *slog.Logger) *Service {
	if store == nil {
		panic("billing: entitlement store is required")
	}
	if provider == nil {
		panic("billing: provider is required")
	}
	if verifier == nil {
		panic("billing: signature verifier is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if mail == nil {
		mail = mailer.NewNoop(log)
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		provider: provider,
		verifier: verifier,
		mail:     mail,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StartCheckout opens a provider subscription for the user and returns the
// identifiers the client-side widget needs.
//
// Customer creation handles the duplicate-email case: if the provider already
// holds a customer for this email, that customer is reused. The customer id
// is persisted before the subscription is created, so a failure between the
// two steps never strands a provider customer we cannot find again.
func (s *Service) StartCheckout(ctx context.Context, identity entitlement.Identity) (*CheckoutSession, error) {
	if identity.UserID == uuid.Nil || identity.Email == "" {
		return nil, ErrIncompleteIdentity
	}

	record, err := s.store.Get(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("load entitlement record: %w", err)
	}

	customerID := record.ProviderCustomerID
	if customerID == "" {
		customer, err := s.provider.CreateCustomer(ctx, identity.DisplayName, identity.Email)
		if errors.Is(err, ErrCustomerExists) {
			customer, err = s.provider.FindCustomerByEmail(ctx, identity.Email)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve provider customer: %w", err)
		}
		customerID = customer.ID

		if err := s.store.SetProviderCustomerID(ctx, identity.UserID, customerID); err != nil {
			return nil, fmt.Errorf("persist customer id: %w", err)
		}
	}

	subscription, err := s.provider.CreateSubscription(ctx, customerID, map[string]string{
		"userId":    identity.UserID.String(),
		"userEmail": identity.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.InfoContext(ctx, "checkout session opened",
		logger.UserID(identity.UserID.String()),
		slog.String("subscription_id", subscription.ID))

	return &CheckoutSession{
		SubscriptionID: subscription.ID,
		CustomerID:     customerID,
		KeyID:          s.cfg.KeyID,
	}, nil
}

// VerifyPayment checks the gateway signature and, if valid, activates the
// user's entitlement for one billing period and records the payment. The
// receipt email is best-effort; a mail failure never fails the payment.
func (s *Service) VerifyPayment(ctx context.Context, userID uuid.UUID, paymentID, subscriptionID, signature string) error {
	if err := s.verifier.Verify(paymentID, subscriptionID, signature); err != nil {
		return err
	}

	record, err := s.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load entitlement record: %w", err)
	}

	now := s.now()
	if err := record.Activate(subscriptionID, now, BillingPeriod); err != nil {
		return err
	}
	if err := s.store.Update(ctx, record); err != nil {
		return fmt.Errorf("persist activation: %w", err)
	}

	payment := entitlement.Payment{
		ID:                     uuid.New(),
		UserID:                 userID,
		ProviderPaymentID:      paymentID,
		ProviderSubscriptionID: subscriptionID,
		Amount:                 s.cfg.PlanAmount,
		Currency:               s.cfg.Currency,
		Status:                 "captured",
		Timestamp:              now,
		PeriodStart:            *record.CurrentPeriodStart,
		PeriodEnd:              *record.CurrentPeriodEnd,
	}
	if err := s.store.AppendPayment(ctx, &payment); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	s.log.InfoContext(ctx, "payment verified",
		logger.UserID(userID.String()),
		slog.String("payment_id", paymentID),
		slog.Time("period_end", *record.CurrentPeriodEnd))

	s.sendReceipt(ctx, record, payment)
	return nil
}

// CancelAtPeriodEnd asks the provider to stop renewing and flags the record.
// Access continues until the paid period runs out; the reconciler demotes the
// record afterwards. Returns when the current period ends.
func (s *Service) CancelAtPeriodEnd(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load entitlement record: %w", err)
	}
	if record.Status != entitlement.StatusActive {
		return nil, entitlement.ErrNotActive
	}
	if record.ProviderSubscriptionID == "" {
		return nil, entitlement.ErrNoProviderSubscription
	}

	if err := s.provider.CancelSubscription(ctx, record.ProviderSubscriptionID, true); err != nil {
		return nil, fmt.Errorf("cancel provider subscription: %w", err)
	}

	if err := record.MarkCancelling(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("persist cancellation: %w", err)
	}

	s.log.InfoContext(ctx, "subscription cancellation scheduled",
		logger.UserID(userID.String()),
		slog.String("subscription_id", record.ProviderSubscriptionID))

	return record.CurrentPeriodEnd, nil
}

// ListPayments returns the user's payment history, newest first.
func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID) ([]entitlement.Payment, error) {
	return s.store.ListPayments(ctx, userID)
}

func (s *Service) sendReceipt(ctx context.Context, record *entitlement.Record, payment entitlement.Payment) {
	if record.Email == "" {
		return
	}
	msg := mailer.Message{
		To:      record.Email,
		Subject: "Payment received",
		BodyHTML: fmt.Sprintf(
			"<p>We received your payment of %s %.2f.</p><p>Your subscription is active until %s.</p>",
			payment.Currency, float64(payment.Amount)/100, payment.PeriodEnd.Format("2 January 2006")),
		Tag: "payment-receipt",
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.WarnContext(ctx, "receipt email failed", logger.Error(err),
			logger.UserID(record.UserID.String()))
	}
}
