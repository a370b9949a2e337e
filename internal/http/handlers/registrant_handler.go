// Registrant HTTP handler.
//
//   - POST /registrant
//
// Creates the buyer's customer record on the provider before payment, so the
// checkout payload can carry a customer id instead of inline contact details.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nameforge/go-domains-backend/internal/reseller"
)

// CreateRegistrant godoc
// @ID          createRegistrant
// @Summary     Create a customer record
// @Description Creates the domain owner's customer record in isolation. The returned id is passed as customer_id at checkout.
// @Tags        Registrant
// @Accept      json
// @Produce     json
//
// @Param       body  body  object  true  "Owner contact details (provider field names, passed through)"
//
// @Success     201  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse  "Provider rejected the details"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider unreachable"
// @Router      /registrant [post]
func (h *Handlers) CreateRegistrant(c *gin.Context) {
	var details reseller.OwnerDetails
	if err := c.ShouldBindJSON(&details); err != nil || len(details) == 0 {
		failSimple(c, http.StatusBadRequest, ErrCodeBadRequest, "owner details are required")
		return
	}

	res, err := h.checkout.CreateOwner(c.Request.Context(), details)
	if err != nil {
		failSimple(c, http.StatusBadGateway, ErrCodeTransport, "provider unreachable")
		return
	}
	if !res.OK() {
		fail(c, http.StatusUnprocessableEntity, ErrorBody{
			Code:             ErrCodeCustomerRejected,
			Message:          res.Rejection.Message,
			ValidationErrors: res.Rejection.ValidationErrors,
		})
		return
	}

	ok(c, http.StatusCreated, gin.H{
		"id":       res.Data.ID,
		"username": res.Data.Username,
	})
}
