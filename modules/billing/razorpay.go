package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the Razorpay credentials and plan the service charges on.
type Config struct {
	KeyID     string        `env:"RAZORPAY_KEY_ID,required"`
	KeySecret string        `env:"RAZORPAY_KEY_SECRET,required"`
	PlanID    string        `env:"RAZORPAY_PLAN_ID,required"`
	BaseURL   string        `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com"`
	Timeout   time.Duration `env:"RAZORPAY_TIMEOUT" envDefault:"15s"`

	// TotalCount is how many billing cycles a subscription is authorized
	// for up front. Razorpay requires it at creation time.
	TotalCount int `env:"RAZORPAY_TOTAL_COUNT" envDefault:"12"`
}

// RazorpayClient implements Provider against the Razorpay REST API.
// Every request carries the key pair as HTTP basic auth.
type RazorpayClient struct {
	cfg    Config
	client *http.Client
}

// NewRazorpayClient creates a client from the given config.
func NewRazorpayClient(cfg Config) *RazorpayClient {
	return &RazorpayClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type razorpayCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type razorpayCustomerList struct {
	Count int                `json:"count"`
	Items []razorpayCustomer `json:"items"`
}

type razorpaySubscription struct {
	ID         string `json:"id"`
	PlanID     string `json:"plan_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
}

// CreateCustomer registers a customer. Razorpay rejects duplicate emails
// with a BAD_REQUEST_ERROR whose description mentions the existing record;
// that case surfaces as ErrCustomerExists so the caller can fall back to a
// lookup.
func (c *RazorpayClient) CreateCustomer(ctx context.Context, name, email string) (*Customer, error) {
	payload := map[string]any{"name": name, "email": email}

	var out razorpayCustomer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", payload, &out); err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) && strings.Contains(strings.ToLower(provErr.Description), "already exists") {
			return nil, fmt.Errorf("%w: %s", ErrCustomerExists, email)
		}
		return nil, err
	}
	return &Customer{ID: out.ID, Name: out.Name, Email: out.Email}, nil
}

// FindCustomerByEmail pages through the merchant's customers and returns the
// first one carrying the email. Razorpay has no server-side email filter.
func (c *RazorpayClient) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	const pageSize = 100
	for skip := 0; ; skip += pageSize {
		path := fmt.Sprintf("/v1/customers?count=%d&skip=%d", pageSize, skip)

		var page razorpayCustomerList
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if strings.EqualFold(item.Email, email) {
				return &Customer{ID: item.ID, Name: item.Name, Email: item.Email}, nil
			}
		}
		if len(page.Items) < pageSize {
			return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, email)
		}
	}
}

// CreateSubscription opens a subscription on the configured plan.
func (c *RazorpayClient) CreateSubscription(ctx context.Context, customerID string, notes map[string]string) (*Subscription, error) {
	payload := map[string]any{
		"plan_id":         c.cfg.PlanID,
		"customer_id":     customerID,
		"total_count":     c.cfg.TotalCount,
		"customer_notify": 1,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	var out razorpaySubscription
	if err := c.do(ctx, http.MethodPost, "/v1/subscriptions", payload, &out); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:         out.ID,
		CustomerID: out.CustomerID,
		PlanID:     out.PlanID,
		Status:     out.Status,
	}, nil
}

// CancelSubscription cancels a subscription, optionally at cycle end.
func (c *RazorpayClient) CancelSubscription(ctx context.Context, subscriptionID string, atCycleEnd bool) error {
	cycleEnd := 0
	if atCycleEnd {
		cycleEnd = 1
	}
	payload := map[string]any{"cancel_at_cycle_end": cycleEnd}
	path := fmt.Sprintf("/v1/subscriptions/%s/cancel", url.PathEscape(subscriptionID))

	var out razorpaySubscription
	return c.do(ctx, http.MethodPost, path, payload, &out)
}

// KeyID returns the public key id the browser checkout widget needs.
func (c *RazorpayClient) KeyID() string { return c.cfg.KeyID }

func (c *RazorpayClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr razorpayError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &ProviderError{
			StatusCode:  resp.StatusCode,
			Code:        apiErr.Error.Code,
			Description: apiErr.Error.Description,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
