// Package services implements the business logic of the acquisition flow.
// This file defines the failure taxonomy of a checkout: every way the state
// machine can stop, with enough structure for the HTTP layer to map each
// case to a status code and for an operator to tell "the network failed"
// from "the reseller refused".
package services

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Acquisition states. A transaction moves strictly forward through these;
// Failed is absorbing and records the state it was entered from.
const (
	StagePendingPayment   = "pending_payment"
	StagePaymentCaptured  = "payment_captured"
	StageOwnerRegistered  = "owner_registered"
	StageDomainRegistered = "domain_registered"
	StageEmailProvisioned = "email_provisioned"
	StageComplete         = "complete"
)

// Failure reasons.
const (
	// ReasonPaymentDeclined: the gateway never reached "succeeded". No
	// reseller call was made; the user may safely retry with another card.
	ReasonPaymentDeclined = "payment_declined"
	// ReasonOwnerRejected: the reseller refused the customer/registrant
	// record. The charge is already captured; surface as "paid but not
	// provisioned", never swallow.
	ReasonOwnerRejected = "customer_rejected"
	// ReasonDomainRejected: the reseller refused the registration itself.
	// Money has moved and the product was not delivered; flagged for manual
	// reconciliation (refund or operator retry).
	ReasonDomainRejected = "domain_rejected"
	// ReasonTransport: network/parse failure talking to the reseller. It is
	// ambiguous whether the reseller acted; an operator must check for a
	// duplicate side effect before any retry.
	ReasonTransport = "transport_error"
)

// ErrMissingOwner is returned when a checkout payload carries neither a
// pre-created customer id nor inline owner details.
var ErrMissingOwner = errors.New("checkout requires customer_id or registrant details")

// AcquisitionError is the consolidated failure outcome of a checkout. It
// carries the reason, the state the machine failed from, and, for reseller
// rejections, the reseller's message and verbatim validation detail.
type AcquisitionError struct {
	// Reason is one of the Reason* constants.
	Reason string
	// Stage is the state the machine was in when it failed.
	Stage string
	// Message is safe to show to the user for owner rejections; for domain
	// rejections it is shown alongside the reconciliation flag.
	Message string
	// ValidationErrors is the reseller's field-level detail, verbatim.
	ValidationErrors json.RawMessage
	// NeedsReconciliation is true when the charge was captured but the
	// domain was not secured.
	NeedsReconciliation bool
	// PaymentIntentID identifies the captured charge, when one exists.
	PaymentIntentID string

	cause error
}

func (e *AcquisitionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at %s: %s", e.Reason, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s at %s", e.Reason, e.Stage)
}

func (e *AcquisitionError) Unwrap() error { return e.cause }
