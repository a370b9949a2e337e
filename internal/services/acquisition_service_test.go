package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nameforge/go-domains-backend/internal/domain"
	"github.com/nameforge/go-domains-backend/internal/payment"
	"github.com/nameforge/go-domains-backend/internal/repo"
	"github.com/nameforge/go-domains-backend/internal/reseller"
)

// ----- Fake gateway -----

type fakeGateway struct {
	outcome payment.ChargeOutcome
	err     error

	calls    int
	amount   int64
	currency string
	pmID     string
}

func (g *fakeGateway) Charge(ctx context.Context, amountMinorUnits int64, currency, paymentMethodID string) (payment.ChargeOutcome, error) {
	g.calls++
	g.amount = amountMinorUnits
	g.currency = currency
	g.pmID = paymentMethodID
	return g.outcome, g.err
}

func succeededGateway() *fakeGateway {
	return &fakeGateway{outcome: payment.ChargeOutcome{IntentID: "pi_1", Status: "succeeded", Succeeded: true}}
}

// ----- Fake reseller -----

// fakeReseller records the order of calls and the arguments of each, and
// answers with configurable results.
type fakeReseller struct {
	callOrder []string

	customerRes reseller.Result[reseller.Customer]
	customerErr error

	registrantRes reseller.Result[reseller.Registrant]
	registrantErr error

	domainRes   reseller.Result[reseller.DomainRegistration]
	domainErr   error
	domainName  string
	domainOwner reseller.OwnerRef
	domainMonth int

	emailRes    reseller.Result[struct{}]
	emailErr    error
	emailDomain string
	emailCustID string
	emailPlanID string
	emailMonths int
}

func (f *fakeReseller) CreateCustomer(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Customer], error) {
	f.callOrder = append(f.callOrder, "customer")
	return f.customerRes, f.customerErr
}

func (f *fakeReseller) CreateRegistrant(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Registrant], error) {
	f.callOrder = append(f.callOrder, "registrant")
	return f.registrantRes, f.registrantErr
}

func (f *fakeReseller) RegisterDomain(ctx context.Context, domainName string, owner reseller.OwnerRef, periodMonths int) (reseller.Result[reseller.DomainRegistration], error) {
	f.callOrder = append(f.callOrder, "domain")
	f.domainName = domainName
	f.domainOwner = owner
	f.domainMonth = periodMonths
	return f.domainRes, f.domainErr
}

func (f *fakeReseller) RegisterEmailHosting(ctx context.Context, domainName, customerID, planID string, periodMonths int) (reseller.Result[struct{}], error) {
	f.callOrder = append(f.callOrder, "email")
	f.emailDomain = domainName
	f.emailCustID = customerID
	f.emailPlanID = planID
	f.emailMonths = periodMonths
	return f.emailRes, f.emailErr
}

func (f *fakeReseller) calls(name string) int {
	n := 0
	for _, c := range f.callOrder {
		if c == name {
			n++
		}
	}
	return n
}

func happyReseller() *fakeReseller {
	return &fakeReseller{
		customerRes:   reseller.Result[reseller.Customer]{Data: reseller.Customer{ID: "C1", Username: "buyer01"}},
		registrantRes: reseller.Result[reseller.Registrant]{Data: reseller.Registrant{ID: "R1"}},
		domainRes:     reseller.Result[reseller.DomainRegistration]{Data: reseller.DomainRegistration{Domain: "example.com"}},
	}
}

func newService(gw payment.Gateway, rc ResellerAPI) *AcquisitionService {
	return NewAcquisitionService(gw, rc, nil, "gbp", zerolog.Nop())
}

func registrantInput() CheckoutInput {
	return CheckoutInput{
		UserID:          "u1",
		Domain:          "example.com",
		AmountMinor:     1299,
		PaymentMethodID: "pm_1",
		OwnerDetails:    reseller.OwnerDetails{"email": "a@b.com"},
	}
}

// ----- Scenario A: full success, registrant variant -----

func TestCheckout_Success_RegistrantVariant(t *testing.T) {
	gw := succeededGateway()
	rc := happyReseller()
	s := newService(gw, rc)

	res, err := s.Checkout(context.Background(), registrantInput())
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if res.Domain != "example.com" || res.CustomerID != "R1" {
		t.Fatalf("result = %+v", res)
	}
	if res.PaymentIntentID != "pi_1" {
		t.Fatalf("intent id = %q", res.PaymentIntentID)
	}
	if gw.amount != 1299 || gw.currency != "gbp" || gw.pmID != "pm_1" {
		t.Fatalf("charge args = %d %q %q", gw.amount, gw.currency, gw.pmID)
	}

	// Owner creation must precede registration, and its id must be the
	// registration foreign key.
	if len(rc.callOrder) != 2 || rc.callOrder[0] != "registrant" || rc.callOrder[1] != "domain" {
		t.Fatalf("call order = %v", rc.callOrder)
	}
	if rc.domainOwner.RegistrantID != "R1" || rc.domainOwner.CustomerID != "" {
		t.Fatalf("registration owner = %+v", rc.domainOwner)
	}
	if rc.domainMonth != 12 {
		t.Fatalf("registration period = %d; want 12", rc.domainMonth)
	}
}

func TestCheckout_Success_CustomerVariant(t *testing.T) {
	rc := happyReseller()
	s := newService(succeededGateway(), rc)

	in := registrantInput()
	in.OwnerDetails = nil
	in.CustomerID = "C42"

	res, err := s.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if res.CustomerID != "C42" {
		t.Fatalf("owner id = %q", res.CustomerID)
	}
	// Pre-created customer: no owner-creation call at all.
	if len(rc.callOrder) != 1 || rc.callOrder[0] != "domain" {
		t.Fatalf("call order = %v", rc.callOrder)
	}
	if rc.domainOwner.CustomerID != "C42" || rc.domainOwner.RegistrantID != "" {
		t.Fatalf("registration owner = %+v", rc.domainOwner)
	}
}

// ----- Scenario B: declined charge, zero reseller calls -----

func TestCheckout_PaymentDeclined_NoResellerCalls(t *testing.T) {
	gw := &fakeGateway{outcome: payment.ChargeOutcome{IntentID: "pi_x", Status: "requires_payment_method"}}
	rc := happyReseller()
	s := newService(gw, rc)

	_, err := s.Checkout(context.Background(), registrantInput())
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v; want *AcquisitionError", err)
	}
	if aerr.Reason != ReasonPaymentDeclined || aerr.Stage != StagePendingPayment {
		t.Fatalf("failure = %s at %s", aerr.Reason, aerr.Stage)
	}
	if aerr.NeedsReconciliation {
		t.Fatal("declined payment has no side effects; must not need reconciliation")
	}
	if len(rc.callOrder) != 0 {
		t.Fatalf("reseller calls after declined charge: %v", rc.callOrder)
	}
}

func TestCheckout_GatewayInfrastructureFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection reset")}
	rc := happyReseller()
	s := newService(gw, rc)

	_, err := s.Checkout(context.Background(), registrantInput())
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if aerr.Reason != ReasonPaymentDeclined || aerr.Stage != StagePendingPayment {
		t.Fatalf("failure = %s at %s", aerr.Reason, aerr.Stage)
	}
	if len(rc.callOrder) != 0 {
		t.Fatalf("reseller calls = %v; want none", rc.callOrder)
	}
}

// ----- Scenario C: owner rejected after capture -----

func TestCheckout_OwnerRejected_SurfacesValidationVerbatim(t *testing.T) {
	rc := happyReseller()
	rc.registrantRes = reseller.Result[reseller.Registrant]{
		Rejection: &reseller.Rejection{
			Message:          "invalid email",
			ValidationErrors: json.RawMessage(`{"email":["must be valid"]}`),
		},
	}
	s := newService(succeededGateway(), rc)

	_, err := s.Checkout(context.Background(), registrantInput())
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if aerr.Reason != ReasonOwnerRejected || aerr.Stage != StagePaymentCaptured {
		t.Fatalf("failure = %s at %s", aerr.Reason, aerr.Stage)
	}
	if aerr.Message != "invalid email" {
		t.Fatalf("message = %q", aerr.Message)
	}
	if string(aerr.ValidationErrors) != `{"email":["must be valid"]}` {
		t.Fatalf("validation errors not verbatim: %s", aerr.ValidationErrors)
	}
	// Paid but not provisioned: must be flagged, and registration must not run.
	if !aerr.NeedsReconciliation {
		t.Fatal("owner rejection after capture must need reconciliation")
	}
	if rc.calls("domain") != 0 {
		t.Fatal("registration issued after owner rejection")
	}
}

// ----- Scenario D: domain rejected after capture -----

func TestCheckout_DomainRejected_FlagsReconciliation(t *testing.T) {
	rc := happyReseller()
	rc.domainRes = reseller.Result[reseller.DomainRegistration]{
		Rejection: &reseller.Rejection{Message: "domain taken"},
	}
	s := newService(succeededGateway(), rc)

	_, err := s.Checkout(context.Background(), registrantInput())
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if aerr.Reason != ReasonDomainRejected || aerr.Stage != StageOwnerRegistered {
		t.Fatalf("failure = %s at %s", aerr.Reason, aerr.Stage)
	}
	if aerr.Message != "domain taken" {
		t.Fatalf("message = %q", aerr.Message)
	}
	if !aerr.NeedsReconciliation || aerr.PaymentIntentID != "pi_1" {
		t.Fatalf("reconciliation flag/intent = %v %q", aerr.NeedsReconciliation, aerr.PaymentIntentID)
	}
}

func TestCheckout_TransportFailure_DistinctFromRejection(t *testing.T) {
	rc := happyReseller()
	rc.domainErr = &reseller.TransportError{Resource: "domains", Err: errors.New("dial tcp: timeout")}
	s := newService(succeededGateway(), rc)

	_, err := s.Checkout(context.Background(), registrantInput())
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if aerr.Reason != ReasonTransport {
		t.Fatalf("reason = %q; want transport_error", aerr.Reason)
	}
	if !aerr.NeedsReconciliation {
		t.Fatal("ambiguous transport failure after capture must need reconciliation")
	}
	var te *reseller.TransportError
	if !errors.As(aerr, &te) {
		t.Fatal("transport cause not wrapped")
	}
}

// ----- Email add-on -----

func TestCheckout_EmailPlanMapping(t *testing.T) {
	cases := map[string]string{
		"basic":    "47",
		"standard": "48",
		"business": "49",
		"luxury":   "", // unrecognized tiers pass through empty for the reseller to reject
	}
	for tier, wantPlan := range cases {
		rc := happyReseller()
		rc.emailRes = reseller.Result[struct{}]{}
		s := newService(succeededGateway(), rc)

		in := registrantInput()
		in.EmailPlan = tier
		if _, err := s.Checkout(context.Background(), in); err != nil {
			t.Fatalf("tier %q: %v", tier, err)
		}
		if rc.calls("email") != 1 {
			t.Fatalf("tier %q: email calls = %d; want 1", tier, rc.calls("email"))
		}
		if rc.emailPlanID != wantPlan {
			t.Fatalf("tier %q: plan id = %q; want %q", tier, rc.emailPlanID, wantPlan)
		}
		if rc.emailMonths != 12 {
			t.Fatalf("tier %q: period = %d; want 12", tier, rc.emailMonths)
		}
	}
}

func TestCheckout_NoEmailPlan_NoEmailCall(t *testing.T) {
	rc := happyReseller()
	s := newService(succeededGateway(), rc)

	if _, err := s.Checkout(context.Background(), registrantInput()); err != nil {
		t.Fatal(err)
	}
	if rc.calls("email") != 0 {
		t.Fatal("email hosting registered without a selected tier")
	}
}

func TestCheckout_EmailRejected_IsPartialSuccess(t *testing.T) {
	rc := happyReseller()
	rc.emailRes = reseller.Result[struct{}]{
		Rejection: &reseller.Rejection{Message: "plan unavailable"},
	}
	s := newService(succeededGateway(), rc)

	in := registrantInput()
	in.EmailPlan = "standard"
	res, err := s.Checkout(context.Background(), in)
	if err != nil {
		t.Fatalf("add-on rejection must not fail the transaction: %v", err)
	}
	if res.EmailProvisioned {
		t.Fatal("email marked provisioned after rejection")
	}
	if res.EmailNote == "" {
		t.Fatal("partial success must carry an add-on failure note")
	}
	if res.Domain != "example.com" || res.CustomerID != "R1" {
		t.Fatalf("domain ownership lost on add-on failure: %+v", res)
	}
}

func TestCheckout_MissingOwner(t *testing.T) {
	rc := happyReseller()
	s := newService(succeededGateway(), rc)

	in := registrantInput()
	in.OwnerDetails = nil

	_, err := s.Checkout(context.Background(), in)
	var aerr *AcquisitionError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, ErrMissingOwner) {
		t.Fatalf("cause = %v; want ErrMissingOwner", err)
	}
	if rc.calls("domain") != 0 {
		t.Fatal("registration issued without an owner")
	}
}

// ----- Ledger integration -----

func openLedger(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func TestCheckout_WritesCompleteOrder(t *testing.T) {
	db := openLedger(t)
	s := NewAcquisitionService(succeededGateway(), happyReseller(), db, "gbp", zerolog.Nop())

	res, err := s.Checkout(context.Background(), registrantInput())
	if err != nil {
		t.Fatal(err)
	}
	if res.OrderID == "" {
		t.Fatal("order id missing from result")
	}

	o, err := repo.GetOrder(context.Background(), db, res.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.State != domain.OrderStateComplete || o.NeedsReconciliation {
		t.Fatalf("ledger row = %+v", o)
	}
	if o.PaymentIntentID != "pi_1" || o.OwnerID != "R1" || o.OwnerStrategy != domain.OwnerStrategyRegistrant {
		t.Fatalf("ledger row = %+v", o)
	}
}

func TestCheckout_WritesReconciliationRowOnDomainRejection(t *testing.T) {
	db := openLedger(t)
	rc := happyReseller()
	rc.domainRes = reseller.Result[reseller.DomainRegistration]{
		Rejection: &reseller.Rejection{Message: "domain taken"},
	}
	s := NewAcquisitionService(succeededGateway(), rc, db, "gbp", zerolog.Nop())

	if _, err := s.Checkout(context.Background(), registrantInput()); err == nil {
		t.Fatal("expected failure")
	}

	rows, err := repo.ListOrdersPage(context.Background(), db, true, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("reconciliation rows = %d; want 1", len(rows))
	}
	o := rows[0]
	if o.State != domain.OrderStateFailed || o.FailureStage != StageOwnerRegistered {
		t.Fatalf("ledger row = %+v", o)
	}
	if o.PaymentIntentID != "pi_1" {
		t.Fatal("captured charge reference missing from reconciliation row")
	}
}

func TestCheckout_NoLedgerRowForDeclinedPayment(t *testing.T) {
	db := openLedger(t)
	gw := &fakeGateway{outcome: payment.ChargeOutcome{Status: "card_declined"}}
	s := NewAcquisitionService(gw, happyReseller(), db, "gbp", zerolog.Nop())

	if _, err := s.Checkout(context.Background(), registrantInput()); err == nil {
		t.Fatal("expected failure")
	}
	n, err := repo.CountOrders(context.Background(), db, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("ledger rows after declined payment = %d; want 0", n)
	}
}

func TestReplayOrder_RoundTrip(t *testing.T) {
	db := openLedger(t)
	s := NewAcquisitionService(succeededGateway(), happyReseller(), db, "gbp", zerolog.Nop())

	res, err := s.Checkout(context.Background(), registrantInput())
	if err != nil {
		t.Fatal(err)
	}
	s.RememberCheckout(context.Background(), "u1", "key-1", res.OrderID, 200)

	got, err := s.ReplayOrder(context.Background(), "u1", "key-1")
	if err != nil {
		t.Fatalf("ReplayOrder: %v", err)
	}
	if got.ID != res.OrderID {
		t.Fatalf("replayed order = %q; want %q", got.ID, res.OrderID)
	}

	if _, err := s.ReplayOrder(context.Background(), "u1", "other-key"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("unknown key = %v; want ErrNotFound", err)
	}
}
