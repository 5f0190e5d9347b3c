package billing

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/binder"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes the subscription lifecycle over HTTP. All routes require
// an authenticated identity in the request context.
type Handler struct {
	svc *Service
}

// NewHandler creates the billing HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("billing: service is required")
	}
	return &Handler{svc: svc}
}

// Register attaches the billing endpoints to the given router. The paths
// are top-level by convention, so registration happens on the caller's
// router instead of a mounted subrouter.
func (h *Handler) Register(r chi.Router) {
	r.Post("/create-subscription", h.createSubscription)
	r.Post("/verify-payment", h.verifyPayment)
	r.Post("/cancel-subscription", h.cancelSubscription)
	r.Get("/payments", h.listPayments)
}

func (h *Handler) createSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	session, err := h.svc.StartCheckout(r.Context(), identity)
	if err != nil {
		if errors.Is(err, ErrIncompleteIdentity) {
			responder.Error(w, http.StatusUnprocessableEntity, "incomplete_identity", "user id and email are required")
			return
		}
		if errors.Is(err, entitlement.ErrRecordNotFound) {
			responder.Error(w, http.StatusNotFound, "record_not_found", "no entitlement record for user")
			return
		}
		responder.Error(w, http.StatusBadGateway, "provider_error", "could not open checkout session")
		return
	}
	responder.JSON(w, http.StatusOK, session)
}

type verifyPaymentRequest struct {
	PaymentID      string `json:"payment_id" validate:"required"`
	SubscriptionID string `json:"subscription_id" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

type verifyPaymentResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req verifyPaymentRequest
	if err := binder.BindJSON(r, &req); err != nil {
		responder.BindError(w, err)
		return
	}

	err := h.svc.VerifyPayment(r.Context(), identity.UserID, req.PaymentID, req.SubscriptionID, req.Signature)
	switch {
	case errors.Is(err, ErrInvalidSignature):
		responder.Error(w, http.StatusBadRequest, "invalid_signature", "payment signature did not verify")
	case errors.Is(err, entitlement.ErrSubscriptionMismatch):
		responder.Error(w, http.StatusConflict, "subscription_mismatch", "payment belongs to a different subscription")
	case errors.Is(err, entitlement.ErrRecordNotFound):
		responder.Error(w, http.StatusNotFound, "record_not_found", "no entitlement record for user")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not verify payment")
	default:
		responder.JSON(w, http.StatusOK, verifyPaymentResponse{Success: true})
	}
}

type cancelSubscriptionResponse struct {
	CurrentPeriodEnd string `json:"currentPeriodEnd"`
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	periodEnd, err := h.svc.CancelAtPeriodEnd(r.Context(), identity.UserID)
	switch {
	case errors.Is(err, entitlement.ErrNotActive), errors.Is(err, entitlement.ErrNoProviderSubscription):
		responder.Error(w, http.StatusConflict, "not_active", "no active subscription to cancel")
	case errors.Is(err, entitlement.ErrRecordNotFound):
		responder.Error(w, http.StatusNotFound, "record_not_found", "no entitlement record for user")
	case err != nil:
		responder.Error(w, http.StatusBadGateway, "provider_error", "could not cancel subscription")
	default:
		resp := cancelSubscriptionResponse{}
		if periodEnd != nil {
			resp.CurrentPeriodEnd = periodEnd.Format(time.RFC3339)
		}
		responder.JSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), identity.UserID)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not load payments")
		return
	}
	if payments == nil {
		payments = []entitlement.Payment{}
	}
	responder.JSON(w, http.StatusOK, payments)
}
