// Checkout HTTP handler.
//
// This file exposes the purchase endpoint:
//   - POST /create-payment-intent?amount=<minor units>
//
// and defines the service contracts plus handler wiring shared by the rest
// of the package. Handlers are transport-thin: they validate input, call
// application services, and translate outcomes into the response envelope.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nameforge/go-domains-backend/internal/domain"
	"github.com/nameforge/go-domains-backend/internal/http/middleware"
	"github.com/nameforge/go-domains-backend/internal/repo"
	"github.com/nameforge/go-domains-backend/internal/reseller"
	"github.com/nameforge/go-domains-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// CheckoutService drives the acquisition transaction consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CheckoutService interface {
	// Checkout runs the charge-then-provision pipeline to a terminal state.
	Checkout(ctx context.Context, in services.CheckoutInput) (*services.CheckoutResult, error)
	// CreateOwner creates a customer record in isolation, pre-payment.
	CreateOwner(ctx context.Context, details reseller.OwnerDetails) (reseller.Result[reseller.Customer], error)
	// ReplayOrder returns the order a previously used Idempotency-Key
	// produced, or repo.ErrNotFound.
	ReplayOrder(ctx context.Context, userID, key string) (*domain.Order, error)
	// RememberCheckout binds an Idempotency-Key to a completed order.
	RememberCheckout(ctx context.Context, userID, key, orderID string, status int)
}

// AvailabilityService resolves a base name against the sellable TLD set.
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, baseName string) ([]reseller.Availability, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the acquisition API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic; the DB handle is used read-only for the operator-facing
// order listing.
type Handlers struct {
	checkout CheckoutService
	avail    AvailabilityService
	db       *gorm.DB

	// stripePublicKey is the publishable key served to the checkout UI.
	stripePublicKey string
}

// New constructs a Handlers instance bound to the given collaborators.
func New(checkout CheckoutService, avail AvailabilityService, db *gorm.DB, stripePublicKey string) *Handlers {
	return &Handlers{checkout: checkout, avail: avail, db: db, stripePublicKey: stripePublicKey}
}

//
// DTOs
//

// CheckoutRequest is the JSON payload of the purchase endpoint. Exactly one
// owner-attachment variant applies: CustomerID references a customer created
// earlier via POST /registrant, Registrant carries the owner contact details
// to create inline. CustomerID wins when both are present.
type CheckoutRequest struct {
	// PaymentMethodID is the confirmed card reference from the checkout UI.
	PaymentMethodID string `json:"payment_method_id" binding:"required" example:"pm_1NXa2eGB4fS"`
	// Domain is the fully qualified name being purchased.
	Domain string `json:"domain" binding:"required" example:"example.co.uk"`
	// CustomerID references a pre-created customer record.
	CustomerID string `json:"customer_id,omitempty" example:"81234"`
	// Registrant carries owner contact details for inline creation.
	Registrant reseller.OwnerDetails `json:"registrant,omitempty"`
	// EmailPlan optionally adds an email-hosting tier
	// (basic|standard|business).
	EmailPlan string `json:"email_plan,omitempty" example:"standard"`
}

//
// Handlers
//

// CreateCheckout godoc
// @ID          createCheckout
// @Summary     Purchase a domain
// @Description Charges the card, registers the domain for the owner, and optionally provisions email hosting. A repeated Idempotency-Key returns the original order without charging again.
// @Tags        Checkout
// @Accept      json
// @Produce     json
//
// @Param       amount           query   int     true  "Charge amount in minor currency units"  example(1099)
// @Param       X-User-ID        header  string  false "User ID"                                 example(user123)
// @Param       Idempotency-Key  header  string  false "Client retry key"
// @Param       body             body    handlers.CheckoutRequest  true  "Checkout payload"
//
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     402  {object}  handlers.ErrorResponse  "Payment declined"
// @Failure     422  {object}  handlers.ErrorResponse  "Provider rejected the order"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider unreachable"
// @Router      /create-payment-intent [post]
func (h *Handlers) CreateCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserIDFrom(c)
	key := middleware.IdempotencyKeyFrom(c)

	// Replay path: a key already bound to an order short-circuits before
	// anything is parsed or charged.
	if key != "" && uid != "" {
		if order, err := h.checkout.ReplayOrder(ctx, uid, key); err == nil {
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, order)
			return
		} else if !errors.Is(err, repo.ErrNotFound) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency replay lookup failed")
		}
	}

	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount <= 0 {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be a positive integer in minor currency units")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: payment_method_id and domain are required")
		return
	}
	if req.CustomerID == "" && len(req.Registrant) == 0 {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "either customer_id or registrant details are required")
		return
	}

	res, err := h.checkout.Checkout(ctx, services.CheckoutInput{
		UserID:          uid,
		Domain:          strings.TrimSpace(strings.ToLower(req.Domain)),
		AmountMinor:     amount,
		PaymentMethodID: req.PaymentMethodID,
		CustomerID:      req.CustomerID,
		OwnerDetails:    req.Registrant,
		EmailPlan:       req.EmailPlan,
	})
	if err != nil {
		status, body := checkoutError(err)
		fail(c, status, body)
		return
	}
	if res == nil {
		// Contract violation: the service must return a result or an error.
		failSimple(c, http.StatusInternalServerError, ErrCodeInternal, "checkout failed")
		return
	}

	h.checkout.RememberCheckout(ctx, uid, key, res.OrderID, http.StatusOK)
	ok(c, http.StatusOK, res)
}

// checkoutError maps an acquisition failure to an HTTP status and error
// body. The boundary never leaks a bare transport error: anything that is
// not an *AcquisitionError becomes an opaque 500.
func checkoutError(err error) (int, ErrorBody) {
	var aerr *services.AcquisitionError
	if !errors.As(err, &aerr) {
		return http.StatusInternalServerError, ErrorBody{Code: ErrCodeInternal, Message: "checkout failed"}
	}

	body := ErrorBody{
		Code:                aerr.Reason,
		Message:             aerr.Message,
		ValidationErrors:    aerr.ValidationErrors,
		NeedsReconciliation: aerr.NeedsReconciliation,
		PaymentIntentID:     aerr.PaymentIntentID,
	}

	switch {
	case errors.Is(err, services.ErrMissingOwner):
		body.Code = ErrCodeBadRequest
		return http.StatusBadRequest, body
	case aerr.Reason == services.ReasonPaymentDeclined:
		return http.StatusPaymentRequired, body
	case aerr.Reason == services.ReasonTransport:
		return http.StatusBadGateway, body
	default:
		// Provider rejections after capture: owner or domain refused.
		return http.StatusUnprocessableEntity, body
	}
}

// PaymentConfig godoc
// @ID          paymentConfig
// @Summary     Checkout UI configuration
// @Description Returns the publishable payment key the browser needs to tokenize cards.
// @Tags        Checkout
// @Produce     json
//
// @Success     200  {object}  handlers.SuccessResponse
// @Router      /payment-config [get]
func (h *Handlers) PaymentConfig(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"public_key": h.stripePublicKey})
}
