// Package reseller implements the typed client for the third-party domain
// reseller API (customers, registrants, domain registration, email-hosting
// plans, and the availability lookup).
//
// Every response from the reseller is a JSON envelope with a `status`
// boolean and either `data` (success) or `error_message`/`validation_errors`
// (failure). This file models that envelope as a tagged result: an
// application-level refusal is a Rejection carried inside the Result, while
// transport faults (network failure, non-JSON body) surface as a
// *TransportError. Callers need the distinction because the two demand
// different recovery: a rejection is final, a transport fault leaves it
// ambiguous whether the reseller acted and must go to an operator before any
// retry.
package reseller

import (
	"encoding/json"
	"fmt"
)

// OwnerDetails is the structured bag of customer/registrant contact fields
// (name, address, email, phone, …) submitted by the buyer. It is passed to
// the reseller verbatim; field validation is the reseller's responsibility
// and comes back via Rejection.ValidationErrors.
type OwnerDetails map[string]any

// Customer is the reseller's account record for a buyer. The reseller
// allocates the id and display username; this client only ever holds the
// reference.
type Customer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Registrant is the contact record legally associated with a domain
// registration. Distinct from Customer in the registrar's data model: one
// customer account can register many domains, each needing registrant
// contact details.
type Registrant struct {
	ID string `json:"id"`
}

// DomainRegistration is the reseller's confirmation of a registered domain.
type DomainRegistration struct {
	ID     string `json:"id"`
	Domain string `json:"domain_name"`
}

// Availability reports whether one candidate domain name can be registered,
// and at what price, in the configured currency.
type Availability struct {
	Domain    string `json:"domain_name"`
	Available bool   `json:"is_available"`
	Price     string `json:"price,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// OwnerRef identifies the owner a domain registration is attached to.
// Exactly one of the two fields is set, selecting the protocol variant: the
// current protocol threads a customer id, the original one a registrant id.
type OwnerRef struct {
	CustomerID   string
	RegistrantID string
}

// Rejection is an application-level refusal: the reseller received the
// request, validated it, and said no. ValidationErrors is kept as raw JSON
// so field-level detail reaches the caller verbatim.
type Rejection struct {
	Message          string
	ValidationErrors json.RawMessage
}

// Error-like rendering for logs; Rejection is deliberately not a Go error
// so it cannot be confused with a transport fault.
func (r *Rejection) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Message
}

// Result is the outcome of one reseller call that reached the application
// layer. Rejection is nil on success.
type Result[T any] struct {
	Data      T
	Rejection *Rejection
}

// OK reports whether the reseller accepted the request.
func (r Result[T]) OK() bool { return r.Rejection == nil }

// rejected builds a failed Result for internal use.
func rejected[T any](msg string, validation json.RawMessage) Result[T] {
	return Result[T]{Rejection: &Rejection{Message: msg, ValidationErrors: validation}}
}

// TransportError reports that a call never produced an interpretable answer
// from the reseller: DNS/connect/timeout failures, a non-JSON body, or a
// non-2xx status without a parseable envelope. Whether the reseller received
// and acted on the request is unknown.
type TransportError struct {
	Resource string // reseller resource, e.g. "customers"
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("reseller %s: transport failure: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// envelope is the reseller's wire-level response shape.
type envelope struct {
	Status           bool            `json:"status"`
	Data             json.RawMessage `json:"data"`
	ErrorMessage     string          `json:"error_message"`
	ValidationErrors json.RawMessage `json:"validation_errors"`
}

// flexID tolerates the reseller emitting ids as either JSON strings or
// numbers (both occur across API versions).
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }
