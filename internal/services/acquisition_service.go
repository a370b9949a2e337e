// Package services – AcquisitionService
//
// This file implements the domain-acquisition transaction: the sequence that
// takes a confirmed card payment and turns it into a customer (or
// registrant) record, a domain registration, and an optional email-hosting
// subscription on the reseller's platform.
//
// The flow is a strict sequential pipeline: each step's input depends on the
// previous step's output (charge success gates everything; the owner id
// feeds the registration call), so there is no internal parallelism. No
// step is retried automatically: the reseller's registration resource is not
// idempotent, and a blind retry risks duplicate registrations or duplicate
// billing. Failures after capture are flagged for manual reconciliation and
// persisted to the order ledger instead.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nameforge/go-domains-backend/internal/domain"
	"github.com/nameforge/go-domains-backend/internal/payment"
	"github.com/nameforge/go-domains-backend/internal/repo"
	"github.com/nameforge/go-domains-backend/internal/reseller"
)

// Registration periods are fixed by the product: domains and the email
// add-on are both sold in 12-month terms.
const (
	domainPeriodMonths = 12
	emailPeriodMonths  = 12
)

// emailPlanIDs maps the selectable email-hosting tiers to the reseller's
// fixed plan identifiers. An unrecognized tier maps to an empty plan id,
// which is passed through for the reseller to reject; tier validation is
// deliberately not duplicated client-side.
var emailPlanIDs = map[string]string{
	"basic":    "47",
	"standard": "48",
	"business": "49",
}

// EmailPlanID returns the reseller plan id for a tier name, or "" when the
// tier is unrecognized.
func EmailPlanID(tier string) string { return emailPlanIDs[tier] }

// ResellerAPI is the provisioning capability consumed by the acquisition
// flow. Implementations must issue exactly one signed HTTP call per method
// and report refusals inside the Result, reserving errors for transport
// faults.
type ResellerAPI interface {
	// CreateCustomer creates the reseller account record for the buyer.
	CreateCustomer(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Customer], error)

	// CreateRegistrant creates a registrant contact record (original
	// protocol variant).
	CreateRegistrant(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Registrant], error)

	// RegisterDomain registers the domain for the given owner. NOT
	// idempotent on the reseller side.
	RegisterDomain(ctx context.Context, domainName string, owner reseller.OwnerRef, periodMonths int) (reseller.Result[reseller.DomainRegistration], error)

	// RegisterEmailHosting subscribes the domain to an email-hosting plan.
	RegisterEmailHosting(ctx context.Context, domainName, customerID, planID string, periodMonths int) (reseller.Result[struct{}], error)
}

// CheckoutInput is everything the orchestrator needs for one transaction.
//
// Exactly one owner-attachment strategy applies: CustomerID references a
// customer created earlier via the standalone registrant endpoint (current
// protocol); OwnerDetails creates a registrant inline before registration
// (original protocol). CustomerID wins when both are present.
type CheckoutInput struct {
	UserID          string
	Domain          string
	AmountMinor     int64
	Currency        string
	PaymentMethodID string

	CustomerID   string
	OwnerDetails reseller.OwnerDetails

	// EmailPlan is the optional add-on tier ("basic", "standard",
	// "business"); empty means no add-on.
	EmailPlan string
}

// CheckoutResult is the consolidated success outcome.
type CheckoutResult struct {
	Domain          string `json:"domain"`
	CustomerID      string `json:"customer_id"`
	Username        string `json:"username,omitempty"`
	PaymentIntentID string `json:"payment_intent_id"`
	OrderID         string `json:"order_id,omitempty"`

	// EmailProvisioned / EmailNote report the optional add-on. A refused
	// add-on after a secured domain is partial success, not failure.
	EmailProvisioned bool   `json:"email_provisioned"`
	EmailNote        string `json:"email_note,omitempty"`
}

// AcquisitionService drives the checkout state machine. It holds no mutable
// state beyond injected collaborators and is safe for concurrent use;
// concurrent checkouts for different users are fully independent.
type AcquisitionService struct {
	// Gateway captures the payment before any provisioning happens.
	Gateway payment.Gateway
	// Reseller performs the provisioning calls.
	Reseller ResellerAPI
	// DB is the order-ledger handle. Optional: a nil DB disables ledger
	// writes (used by tests exercising the pure flow).
	DB *gorm.DB
	// Currency is the ISO-4217 code charged when the input carries none.
	Currency string
	// IdempotencyTTL bounds how long a checkout may be replayed by key.
	IdempotencyTTL time.Duration

	Log zerolog.Logger
}

// NewAcquisitionService constructs the orchestrator with its collaborators.
func NewAcquisitionService(gw payment.Gateway, rc ResellerAPI, db *gorm.DB, currency string, log zerolog.Logger) *AcquisitionService {
	return &AcquisitionService{
		Gateway:        gw,
		Reseller:       rc,
		DB:             db,
		Currency:       currency,
		IdempotencyTTL: 24 * time.Hour,
		Log:            log.With().Str("component", "acquisition").Logger(),
	}
}

// Checkout runs the full acquisition state machine:
//
//	PendingPayment → PaymentCaptured → OwnerRegistered → DomainRegistered
//	→ [EmailProvisioned] → Complete
//
// with an absorbing Failed(reason, stage) reachable from every state. It
// returns either a CheckoutResult or an *AcquisitionError; the caller-facing
// boundary never sees a bare transport error.
func (s *AcquisitionService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	log := s.Log.With().Str("domain", in.Domain).Str("user_id", in.UserID).Logger()

	currency := in.Currency
	if currency == "" {
		currency = s.Currency
	}

	// PendingPayment → PaymentCaptured. Nothing may be provisioned for an
	// unpaid order: the charge is the gate for every reseller call.
	outcome, err := s.Gateway.Charge(ctx, in.AmountMinor, currency, in.PaymentMethodID)
	if err != nil {
		observeAcquisition(ReasonPaymentDeclined)
		return nil, &AcquisitionError{
			Reason:  ReasonPaymentDeclined,
			Stage:   StagePendingPayment,
			Message: "payment could not be processed",
			cause:   err,
		}
	}
	if !outcome.Succeeded {
		log.Warn().Str("charge_status", outcome.Status).Msg("payment declined")
		observeAcquisition(ReasonPaymentDeclined)
		return nil, &AcquisitionError{
			Reason:  ReasonPaymentDeclined,
			Stage:   StagePendingPayment,
			Message: "payment declined: " + outcome.Status,
		}
	}
	log.Info().Str("intent_id", outcome.IntentID).Int64("amount_minor", in.AmountMinor).Msg("payment captured")

	// PaymentCaptured → OwnerRegistered.
	owner, username, strategy, aerr := s.attachOwner(ctx, in, outcome.IntentID)
	if aerr != nil {
		s.recordFailure(ctx, in, outcome.IntentID, strategy, "", aerr)
		observeAcquisition(aerr.Reason)
		return nil, aerr
	}

	ownerID := owner.CustomerID
	if ownerID == "" {
		ownerID = owner.RegistrantID
	}

	// OwnerRegistered → DomainRegistered.
	regRes, err := s.Reseller.RegisterDomain(ctx, in.Domain, owner, domainPeriodMonths)
	if err != nil {
		aerr := &AcquisitionError{
			Reason:              ReasonTransport,
			Stage:               StageOwnerRegistered,
			Message:             "reseller unreachable during domain registration",
			NeedsReconciliation: true,
			PaymentIntentID:     outcome.IntentID,
			cause:               err,
		}
		s.recordFailure(ctx, in, outcome.IntentID, strategy, ownerID, aerr)
		observeAcquisition(ReasonTransport)
		return nil, aerr
	}
	if !regRes.OK() {
		log.Warn().Str("error_message", regRes.Rejection.Message).Msg("domain registration rejected after capture")
		aerr := &AcquisitionError{
			Reason:              ReasonDomainRejected,
			Stage:               StageOwnerRegistered,
			Message:             regRes.Rejection.Message,
			ValidationErrors:    regRes.Rejection.ValidationErrors,
			NeedsReconciliation: true,
			PaymentIntentID:     outcome.IntentID,
		}
		s.recordFailure(ctx, in, outcome.IntentID, strategy, ownerID, aerr)
		observeAcquisition(ReasonDomainRejected)
		return nil, aerr
	}
	log.Info().Str("owner_id", ownerID).Msg("domain registered")

	res := &CheckoutResult{
		Domain:          in.Domain,
		CustomerID:      ownerID,
		Username:        username,
		PaymentIntentID: outcome.IntentID,
	}

	// DomainRegistered → EmailProvisioned, only when a tier was selected.
	// A refusal here is non-fatal: the domain is already secured.
	state := domain.OrderStateComplete
	planID := ""
	if in.EmailPlan != "" {
		planID = EmailPlanID(in.EmailPlan)
		emailRes, err := s.Reseller.RegisterEmailHosting(ctx, in.Domain, ownerID, planID, emailPeriodMonths)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("email hosting unreachable; domain kept")
			res.EmailNote = "email hosting could not be provisioned"
			state = domain.OrderStatePartial
		case !emailRes.OK():
			log.Warn().Str("error_message", emailRes.Rejection.Message).Msg("email hosting rejected; domain kept")
			res.EmailNote = "email hosting rejected: " + emailRes.Rejection.Message
			state = domain.OrderStatePartial
		default:
			res.EmailProvisioned = true
		}
	}

	res.OrderID = s.recordSuccess(ctx, in, outcome.IntentID, strategy, ownerID, username, planID, state, res)
	if state == domain.OrderStatePartial {
		observeAcquisition("partial")
	} else {
		observeAcquisition("complete")
	}
	return res, nil
}

// attachOwner performs the owner-registration step under the strategy the
// payload selected, returning the owner reference to thread into the
// registration call.
func (s *AcquisitionService) attachOwner(ctx context.Context, in CheckoutInput, intentID string) (reseller.OwnerRef, string, string, *AcquisitionError) {
	switch {
	case in.CustomerID != "":
		// Current protocol: the customer record was created before payment
		// via the standalone endpoint; nothing to provision here.
		return reseller.OwnerRef{CustomerID: in.CustomerID}, "", domain.OwnerStrategyCustomer, nil

	case len(in.OwnerDetails) > 0:
		// Original protocol: create the registrant inline, then thread its
		// id as the registration foreign key.
		res, err := s.Reseller.CreateRegistrant(ctx, in.OwnerDetails)
		if err != nil {
			return reseller.OwnerRef{}, "", domain.OwnerStrategyRegistrant, &AcquisitionError{
				Reason:              ReasonTransport,
				Stage:               StagePaymentCaptured,
				Message:             "reseller unreachable during registrant creation",
				NeedsReconciliation: true,
				PaymentIntentID:     intentID,
				cause:               err,
			}
		}
		if !res.OK() {
			return reseller.OwnerRef{}, "", domain.OwnerStrategyRegistrant, &AcquisitionError{
				Reason:              ReasonOwnerRejected,
				Stage:               StagePaymentCaptured,
				Message:             res.Rejection.Message,
				ValidationErrors:    res.Rejection.ValidationErrors,
				NeedsReconciliation: true,
				PaymentIntentID:     intentID,
			}
		}
		return reseller.OwnerRef{RegistrantID: res.Data.ID}, "", domain.OwnerStrategyRegistrant, nil

	default:
		return reseller.OwnerRef{}, "", "", &AcquisitionError{
			Reason:              ReasonOwnerRejected,
			Stage:               StagePaymentCaptured,
			Message:             ErrMissingOwner.Error(),
			NeedsReconciliation: true,
			PaymentIntentID:     intentID,
			cause:               ErrMissingOwner,
		}
	}
}

// CreateOwner creates a customer record in isolation, the pre-payment step
// of the current protocol, letting the UI obtain a customer id before
// charging. Refusals come back inside the Result for the handler to render
// with validation detail.
func (s *AcquisitionService) CreateOwner(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Customer], error) {
	return s.Reseller.CreateCustomer(ctx, details)
}

// ReplayOrder returns the ledger row a previously used Idempotency-Key
// produced, or repo.ErrNotFound.
func (s *AcquisitionService) ReplayOrder(ctx context.Context, userID, key string) (*domain.Order, error) {
	if s.DB == nil {
		return nil, repo.ErrNotFound
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, key, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return repo.GetOrder(ctx, s.DB, rec.OrderID)
}

// RememberCheckout stores the idempotency record binding key → order. A
// duplicate key is ignored: first write wins.
func (s *AcquisitionService) RememberCheckout(ctx context.Context, userID, key, orderID string, status int) {
	if s.DB == nil || key == "" || orderID == "" {
		return
	}
	if _, err := repo.CreateIdempotency(ctx, s.DB, userID, key, orderID, status, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		s.Log.Error().Err(err).Msg("idempotency record write failed")
	}
}

// recordSuccess writes the terminal ledger row for a completed (or partially
// completed) checkout. Ledger writes are best effort: a failure is logged
// and never alters the checkout outcome.
func (s *AcquisitionService) recordSuccess(ctx context.Context, in CheckoutInput, intentID, strategy, ownerID, username, planID, state string, res *CheckoutResult) string {
	if s.DB == nil {
		return ""
	}
	o := &domain.Order{
		UserID:           in.UserID,
		Domain:           in.Domain,
		AmountMinor:      in.AmountMinor,
		Currency:         s.currencyFor(in),
		PaymentIntentID:  intentID,
		OwnerStrategy:    strategy,
		OwnerID:          ownerID,
		Username:         username,
		EmailPlan:        in.EmailPlan,
		EmailPlanID:      planID,
		EmailProvisioned: res.EmailProvisioned,
		State:            state,
	}
	if err := repo.CreateOrder(ctx, s.DB, o); err != nil {
		s.Log.Error().Err(err).Str("domain", in.Domain).Msg("order ledger write failed")
		return ""
	}
	return o.ID
}

// recordFailure writes the terminal ledger row for a checkout that failed
// after the charge was captured. These are the rows reconciliation acts on.
func (s *AcquisitionService) recordFailure(ctx context.Context, in CheckoutInput, intentID, strategy, ownerID string, aerr *AcquisitionError) {
	if s.DB == nil {
		return
	}
	o := &domain.Order{
		UserID:              in.UserID,
		Domain:              in.Domain,
		AmountMinor:         in.AmountMinor,
		Currency:            s.currencyFor(in),
		PaymentIntentID:     intentID,
		OwnerStrategy:       strategy,
		OwnerID:             ownerID,
		EmailPlan:           in.EmailPlan,
		State:               domain.OrderStateFailed,
		FailureStage:        aerr.Stage,
		FailureReason:       aerr.Reason + ": " + aerr.Message,
		NeedsReconciliation: aerr.NeedsReconciliation,
	}
	if err := repo.CreateOrder(ctx, s.DB, o); err != nil {
		s.Log.Error().Err(err).Str("domain", in.Domain).Msg("order ledger write failed")
	}
}

func (s *AcquisitionService) currencyFor(in CheckoutInput) string {
	if in.Currency != "" {
		return in.Currency
	}
	return s.Currency
}
