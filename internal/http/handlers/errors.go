// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// This file centralizes the symbolic code constants written into failure
// envelopes (via the `fail()` helper in response.go). Codes are lowercase
// snake_case; generic codes mirror HTTP status semantics, while the
// checkout-specific codes mirror the acquisition failure taxonomy so a UI
// can branch on them:
//
//   - payment_declined:   card refused, nothing provisioned, safe to retry
//   - customer_rejected:  provider refused the owner record after capture
//   - domain_rejected:    provider refused the registration after capture
//   - transport_error:    provider unreachable; side effects ambiguous
//
// Example response:
//
//	{
//	  "status": false,
//	  "error": {
//	    "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	    "code": "payment_declined",
//	    "message": "payment declined: requires_payment_method"
//	  }
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Checkout-specific (mirror services.Reason* values so the wire code
	// and the ledger's failure_reason prefix agree):
	ErrCodePaymentDeclined  = "payment_declined"
	ErrCodeCustomerRejected = "customer_rejected"
	ErrCodeDomainRejected   = "domain_rejected"
	ErrCodeTransport        = "transport_error"
)
