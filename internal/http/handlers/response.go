// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the consolidated response envelope used across all
// endpoints. Every response, success or failure, carries a boolean `status`
// discriminator so UI clients branch on one field:
//
//	HTTP/1.1 200 OK
//	{ "status": true, "data": { "domain": "example.co.uk", ... } }
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "status": false,
//	  "error": {
//	    "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	    "code": "customer_rejected",
//	    "message": "The given data was invalid.",
//	    "validation_errors": { "email": ["is required"] },
//	    "needs_reconciliation": true
//	  }
//	}
//
// Conventions:
//   - All error responses carry a stable machine-readable `code`
//     (see errors.go constants).
//   - `fail()` centralizes error formatting and logs 5xx responses with the
//     request-scoped logger.
//   - `validation_errors` is the reseller's field-level detail passed through
//     verbatim, never reshaped.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nameforge/go-domains-backend/internal/http/middleware"
)

// SuccessResponse is the envelope for all 2xx JSON bodies.
type SuccessResponse struct {
	// Status is always true for success envelopes.
	Status bool `json:"status" example:"true"`
	// Data is the endpoint-specific payload.
	Data any `json:"data"`
}

// ErrorBody is the error payload inside a failure envelope.
type ErrorBody struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"domain_rejected"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"domain is not available"`
	// Field-level detail from the provisioning provider, verbatim
	ValidationErrors json.RawMessage `json:"validation_errors,omitempty" swaggertype:"object"`
	// True when money was captured but the product was not delivered
	NeedsReconciliation bool `json:"needs_reconciliation,omitempty"`
	// Identifies the captured charge for support/refund flows
	PaymentIntentID string `json:"payment_intent_id,omitempty" example:"pi_3NXa2eGB"`
}

// ErrorResponse is the envelope for all non-2xx JSON bodies.
type ErrorResponse struct {
	// Status is always false for failure envelopes.
	Status bool `json:"status" example:"false"`
	// Error carries the structured failure detail.
	Error ErrorBody `json:"error"`
}

// ok writes a success envelope with the given HTTP status.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Status: true, Data: data})
}

// fail aborts the request with a failure envelope and logs server-side errors.
func fail(c *gin.Context, status int, body ErrorBody) {
	if body.RequestID == "" {
		body.RequestID = c.Writer.Header().Get("X-Request-ID")
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", body.Code).
			Str("message", body.Message).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Status: false, Error: body})
}

// failSimple is fail() for the common code+message case.
func failSimple(c *gin.Context, status int, code, msg string) {
	fail(c, status, ErrorBody{Code: code, Message: msg})
}

// Fail is the exported variant of failSimple for router-level handlers
// (404, 405) that live outside this package's endpoints.
func Fail(c *gin.Context, status int, code, msg string) { failSimple(c, status, code, msg) }
