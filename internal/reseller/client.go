// Reseller HTTP client.
//
// One exported method per reseller resource, each issuing exactly one signed
// HTTP call: a fresh request id and signature are generated per call and
// never reused across the customer, registrant, and domain calls of a single
// transaction. All configuration (base URL, credentials, timeout) is
// injected at construction time; the client holds no mutable state and is
// safe for concurrent use.
package reseller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nameforge/go-domains-backend/internal/signing"
)

// Endpoint paths on the reseller API.
const (
	pathCustomers    = "/customers"
	pathRegistrants  = "/domains/registrants"
	pathRegister     = "/domains/register"
	pathEmailHosting = "/products/email-hostings"
	pathAvailability = "/domains/availability"
)

// Config carries the static settings of the reseller integration. It is
// read-only after construction; there is no ambient/global lookup.
type Config struct {
	// BaseURL is the scheme+host of the reseller API, without trailing slash.
	BaseURL string
	// APIKey is the shared secret used to sign every request.
	APIKey string
	// ResellerID identifies this reseller account (Reseller-ID header).
	ResellerID string
	// Timeout bounds each individual HTTP call.
	Timeout time.Duration
	// TLDs is the fixed suffix set probed by the availability lookup.
	TLDs []string
	// Currency is the ISO-4217 code sent with availability lookups.
	Currency string
}

// Client is the typed capability over the reseller's resources.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// New constructs a Client. A nil httpClient falls back to a dedicated client
// bounded by cfg.Timeout.
func New(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  log.With().Str("component", "reseller").Logger(),
	}
}

// CreateCustomer creates the reseller account record for a buyer.
// A well-formed refusal (bad email, missing field) comes back as a
// Rejection, never as an error.
func (c *Client) CreateCustomer(ctx context.Context, details OwnerDetails) (Result[Customer], error) {
	env, err := c.do(ctx, http.MethodPost, pathCustomers, "customers", details)
	if err != nil {
		return Result[Customer]{}, err
	}
	if !env.Status {
		return rejected[Customer](env.ErrorMessage, env.ValidationErrors), nil
	}
	var data struct {
		ID       flexID `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return Result[Customer]{}, &TransportError{Resource: "customers", Err: fmt.Errorf("decode data: %w", err)}
	}
	return Result[Customer]{Data: Customer{ID: data.ID.String(), Username: data.Username}}, nil
}

// CreateRegistrant creates a registrant contact record. Same contract as
// CreateCustomer, against the registrant resource.
func (c *Client) CreateRegistrant(ctx context.Context, details OwnerDetails) (Result[Registrant], error) {
	env, err := c.do(ctx, http.MethodPost, pathRegistrants, "registrants", details)
	if err != nil {
		return Result[Registrant]{}, err
	}
	if !env.Status {
		return rejected[Registrant](env.ErrorMessage, env.ValidationErrors), nil
	}
	var data struct {
		ID flexID `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return Result[Registrant]{}, &TransportError{Resource: "registrants", Err: fmt.Errorf("decode data: %w", err)}
	}
	return Result[Registrant]{Data: Registrant{ID: data.ID.String()}}, nil
}

// RegisterDomain registers domain for the given owner over periodMonths.
// The reseller does NOT guarantee idempotency for this resource; callers
// must not issue it twice for one paid transaction.
func (c *Client) RegisterDomain(ctx context.Context, domain string, owner OwnerRef, periodMonths int) (Result[DomainRegistration], error) {
	body := map[string]any{
		"domain_name": domain,
		"period":      periodMonths,
	}
	switch {
	case owner.CustomerID != "":
		body["customer_id"] = owner.CustomerID
	case owner.RegistrantID != "":
		body["registrant_id"] = owner.RegistrantID
	}

	env, err := c.do(ctx, http.MethodPost, pathRegister, "domains", body)
	if err != nil {
		return Result[DomainRegistration]{}, err
	}
	if !env.Status {
		return rejected[DomainRegistration](env.ErrorMessage, env.ValidationErrors), nil
	}
	reg := DomainRegistration{Domain: domain}
	if len(env.Data) > 0 {
		var data struct {
			ID     flexID `json:"id"`
			Domain string `json:"domain_name"`
		}
		// Best effort: some API versions return an empty data object here.
		if err := json.Unmarshal(env.Data, &data); err == nil {
			reg.ID = data.ID.String()
			if data.Domain != "" {
				reg.Domain = data.Domain
			}
		}
	}
	return Result[DomainRegistration]{Data: reg}, nil
}

// RegisterEmailHosting subscribes domain to an email-hosting plan for the
// given customer. planID is passed through untouched: an unrecognized tier
// upstream maps to an empty plan id, which the reseller rejects.
func (c *Client) RegisterEmailHosting(ctx context.Context, domain, customerID, planID string, periodMonths int) (Result[struct{}], error) {
	body := map[string]any{
		"domain_name": domain,
		"customer_id": customerID,
		"plan_id":     planID,
		"period":      periodMonths,
	}
	env, err := c.do(ctx, http.MethodPost, pathEmailHosting, "email_hostings", body)
	if err != nil {
		return Result[struct{}]{}, err
	}
	if !env.Status {
		return rejected[struct{}](env.ErrorMessage, env.ValidationErrors), nil
	}
	return Result[struct{}]{}, nil
}

// CheckAvailability probes baseName against the configured TLD set and
// returns one entry per candidate. baseName is the bare label, without any
// suffix ("example", not "example.com").
func (c *Client) CheckAvailability(ctx context.Context, baseName string) ([]Availability, error) {
	q := url.Values{}
	for _, tld := range c.cfg.TLDs {
		q.Add("domain_names[]", baseName+"."+tld)
	}
	if c.cfg.Currency != "" {
		q.Set("currency", c.cfg.Currency)
	}

	env, err := c.do(ctx, http.MethodGet, pathAvailability+"?"+q.Encode(), "availability", nil)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		// The availability resource has no meaningful rejection mode; map a
		// refusal to an empty result so the caller renders "nothing found".
		c.log.Warn().Str("error_message", env.ErrorMessage).Msg("availability lookup refused")
		return []Availability{}, nil
	}
	var out []Availability
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, &TransportError{Resource: "availability", Err: fmt.Errorf("decode data: %w", err)}
	}
	return out, nil
}

// do issues one signed HTTP call and parses the reseller envelope.
//
// Non-2xx statuses with a parseable envelope still return that envelope (the
// reseller reports rejections with status:false bodies on 4xx); anything
// else is a *TransportError.
func (c *Client) do(ctx context.Context, method, path, resource string, body any) (*envelope, error) {
	start := time.Now()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Resource: resource, Err: fmt.Errorf("encode body: %w", err)}
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, payload)
	if err != nil {
		return nil, &TransportError{Resource: resource, Err: err}
	}

	// One signing pair per HTTP call. Never cached: the signature is bound
	// to this call's request id.
	requestID := signing.NewRequestID()
	req.Header.Set("Reseller-ID", c.cfg.ResellerID)
	req.Header.Set("Api-Request-Id", requestID)
	req.Header.Set("Api-Signature", signing.Sign(requestID, c.cfg.APIKey))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(resource, outcomeTransport, time.Since(start))
		return nil, &TransportError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observeRequest(resource, outcomeTransport, time.Since(start))
		return nil, &TransportError{Resource: resource, Err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		observeRequest(resource, outcomeTransport, time.Since(start))
		return nil, &TransportError{
			Resource: resource,
			Err:      fmt.Errorf("status %d: non-JSON body: %w", resp.StatusCode, err),
		}
	}

	outcome := outcomeOK
	if !env.Status {
		outcome = outcomeRejected
	}
	observeRequest(resource, outcome, time.Since(start))

	c.log.Debug().
		Str("resource", resource).
		Str("api_request_id", requestID).
		Int("http_status", resp.StatusCode).
		Bool("status", env.Status).
		Dur("latency", time.Since(start)).
		Msg("reseller call")

	return &env, nil
}

// maxResponseBytes caps reseller response bodies; envelopes are small.
const maxResponseBytes = 1 << 20
