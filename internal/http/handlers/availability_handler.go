// Availability HTTP handler.
//
//   - GET /domain-availability?domain=<base name>
//
// Proxies the provider's availability lookup across the fixed sellable TLD
// set, so the checkout UI never talks to the reseller directly.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DomainAvailability godoc
// @ID          domainAvailability
// @Summary     Check domain availability
// @Description Resolves a base name (without TLD) against every sellable TLD and returns per-name availability and pricing.
// @Tags        Availability
// @Produce     json
//
// @Param       domain  query  string  true  "Base name without TLD"  example(mybrand)
//
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or invalid name"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider unreachable"
// @Router      /domain-availability [get]
func (h *Handlers) DomainAvailability(c *gin.Context) {
	name := strings.TrimSpace(strings.ToLower(c.Query("domain")))
	if name == "" {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "domain query parameter is required")
		return
	}
	// Base name only: TLD fan-out happens server-side.
	if strings.ContainsAny(name, "./ ") {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "domain must be a bare name without TLD")
		return
	}

	results, err := h.avail.CheckAvailability(c.Request.Context(), name)
	if err != nil {
		failSimple(c, http.StatusBadGateway, ErrCodeTransport, "availability lookup failed")
		return
	}
	ok(c, http.StatusOK, results)
}
