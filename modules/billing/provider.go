package billing

import (
	"context"
	"fmt"
)

// Customer is the billing provider's record of a paying user.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Subscription is a recurring billing agreement held by the provider.
type Subscription struct {
	ID         string
	CustomerID string
	PlanID     string
	Status     string
}

// Provider is the payment gateway the billing service talks to. The shapes
// follow Razorpay's subscription API; other gateways can be adapted behind
// the same interface.
type Provider interface {
	// CreateCustomer registers a customer. Providers that enforce unique
	// emails return ErrCustomerExists, in which case callers should fall
	// back to FindCustomerByEmail.
	CreateCustomer(ctx context.Context, name, email string) (*Customer, error)

	// FindCustomerByEmail looks up an existing customer record.
	// Returns ErrCustomerNotFound when no customer carries the email.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// CreateSubscription opens a subscription on the configured plan for
	// the given customer. Notes are attached verbatim for later audit.
	CreateSubscription(ctx context.Context, customerID string, notes map[string]string) (*Subscription, error)

	// CancelSubscription cancels a subscription. With atCycleEnd the
	// provider keeps the subscription alive until the paid period runs out.
	CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) error
}

// ProviderError is a structured failure returned by the payment gateway.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("billing provider: %s (%s, http %d)", e.Description, e.Code, e.StatusCode)
}
