// Package payment defines the card-charging capability consumed by the
// acquisition flow, and its Stripe implementation.
//
// The capability is deliberately narrow: authorize and capture a charge for
// an amount/currency against a payment-method reference, synchronously, and
// report the terminal status. Everything upstream treats any status other
// than "succeeded" as a hard stop: no provisioning call may be issued for
// an unpaid order.
package payment

import "context"

// ChargeOutcome is the terminal result of one authorize-and-capture attempt.
type ChargeOutcome struct {
	// IntentID is the provider's identifier for the charge record, kept for
	// the order ledger and manual reconciliation.
	IntentID string
	// Status is the provider's terminal status string (e.g. "succeeded",
	// "requires_payment_method", "card_declined").
	Status string
	// Succeeded is true only when the charge reached the provider's
	// "succeeded" status.
	Succeeded bool
}

// Gateway attempts a synchronous authorize-and-capture charge.
//
// amountMinorUnits is an integer in the currency's smallest unit (pence for
// GBP), never a float, to avoid rounding drift. A declined card is an
// expected ChargeOutcome with Succeeded=false; an error is reserved for
// infrastructure failures where no terminal outcome was obtained.
type Gateway interface {
	Charge(ctx context.Context, amountMinorUnits int64, currency, paymentMethodID string) (ChargeOutcome, error)
}
