// Stripe implementation of the payment Gateway.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// intentCreator is the slice of the Stripe client the gateway needs.
// Satisfied by client.API.PaymentIntents; tests substitute a fake.
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway charges cards through Stripe PaymentIntents. The API client
// is built once from an explicitly supplied secret key; there is no global
// stripe.Key assignment.
type StripeGateway struct {
	intents intentCreator
	log     zerolog.Logger
}

// NewStripeGateway constructs a gateway bound to the given secret key.
func NewStripeGateway(secretKey string, log zerolog.Logger) *StripeGateway {
	api := client.New(secretKey, nil)
	return &StripeGateway{
		intents: api.PaymentIntents,
		log:     log.With().Str("component", "stripe").Logger(),
	}
}

// Charge creates and immediately confirms a PaymentIntent.
//
// The intent requests automatic payment-method resolution with redirect
// methods disabled: this is a synchronous server-side capture, there is no
// client redirect step to complete.
func (g *StripeGateway) Charge(ctx context.Context, amountMinorUnits int64, currency, paymentMethodID string) (ChargeOutcome, error) {
	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(amountMinorUnits),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}

	pi, err := g.intents.New(params)
	if err != nil {
		// A card error is an expected terminal outcome, not an
		// infrastructure failure: the charge attempt ran and was declined.
		var sErr *stripe.Error
		if errors.As(err, &sErr) {
			out := ChargeOutcome{Status: string(sErr.Code)}
			if sErr.PaymentIntent != nil {
				out.IntentID = sErr.PaymentIntent.ID
				out.Status = string(sErr.PaymentIntent.Status)
			}
			if out.Status == "" {
				out.Status = "failed"
			}
			g.log.Warn().
				Str("intent_id", out.IntentID).
				Str("status", out.Status).
				Str("decline_code", string(sErr.DeclineCode)).
				Msg("charge declined")
			return out, nil
		}
		return ChargeOutcome{}, fmt.Errorf("stripe payment intent: %w", err)
	}

	out := ChargeOutcome{
		IntentID:  pi.ID,
		Status:    string(pi.Status),
		Succeeded: pi.Status == stripe.PaymentIntentStatusSucceeded,
	}
	if !out.Succeeded {
		g.log.Warn().
			Str("intent_id", out.IntentID).
			Str("status", out.Status).
			Msg("charge did not reach succeeded")
	}
	return out, nil
}
