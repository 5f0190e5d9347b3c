// Package billing drives the paid-subscription lifecycle against a payment
// gateway with Razorpay's subscription API shape.
//
// The flow is checkout-first: StartCheckout opens a provider subscription and
// hands the client the identifiers for the browser payment widget; the client
// reports back the gateway's signed payment callback, which VerifyPayment
// checks before granting a billing period of access. Cancellation is always
// at cycle end. A background Reconciler demotes records whose trial or paid
// period has run out, since access checks trust the stored status literally.
package billing
