package controllers

import (
	"errors"

	"moda-store/libs"
	"moda-store/models"
	"moda-store/services"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

func respondSession(c *gin.Context, status int, message string, session *services.CheckoutSession) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    session,
	})
}

// BeginCheckout godoc
// @Summary Begin checkout
// @Description Open a checkout session from the current cart
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /checkout [post]
func (ctrl *CheckoutController) BeginCheckout(c *gin.Context) {
	session, err := ctrl.checkout.Begin(c.Request.Context(), c.GetInt("user_id"), sessionKey(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not start checkout"})
		return
	}

	respondSession(c, 200, "Checkout started", session)
}

// GetCheckout godoc
// @Summary Get checkout state
// @Description Get the current checkout session state
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout [get]
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	session, err := ctrl.checkout.Session(sessionKey(c))
	if err != nil {
		c.JSON(404, gin.H{"success": false, "message": "No checkout in progress"})
		return
	}

	respondSession(c, 200, "Checkout state retrieved", session)
}

// ConfirmAddress godoc
// @Summary Confirm delivery address
// @Description Confirm the address and move on to the shipping quote
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ShippingAddress true "Address"
// @Success 200 {object} models.Response
// @Router /checkout/address [post]
func (ctrl *CheckoutController) ConfirmAddress(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	session, err := ctrl.checkout.ConfirmAddress(c.Request.Context(), sessionKey(c), addr)
	if err != nil {
		ctrl.respondError(c, session, err)
		return
	}

	respondSession(c, 200, "Address confirmed", session)
}

// AttachShipping godoc
// @Summary Attach selected shipping
// @Description Pull the selected shipping option into the checkout session
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /checkout/shipping [post]
func (ctrl *CheckoutController) AttachShipping(c *gin.Context) {
	session, err := ctrl.checkout.AttachShipping(c.Request.Context(), sessionKey(c))
	if err != nil {
		ctrl.respondError(c, session, err)
		return
	}

	respondSession(c, 200, "Shipping attached", session)
}

// ChoosePaymentMethod godoc
// @Summary Choose payment method
// @Description Branch the checkout into the card, Pix or boleto flow
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChoosePaymentMethodRequest true "Method"
// @Success 200 {object} models.Response
// @Router /checkout/payment-method [post]
func (ctrl *CheckoutController) ChoosePaymentMethod(c *gin.Context) {
	var req models.ChoosePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	session, err := ctrl.checkout.ChooseMethod(c.Request.Context(), sessionKey(c), req.Method)
	if err != nil {
		ctrl.respondError(c, session, err)
		return
	}

	respondSession(c, 200, "Payment method set", session)
}

// SubmitPayment godoc
// @Summary Submit payment
// @Description Submit the payment; a decline returns to method choice with the cart intact
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SubmitPaymentRequest true "Payment details"
// @Success 200 {object} models.Response
// @Failure 402 {object} models.ErrorResponse
// @Router /checkout/submit [post]
func (ctrl *CheckoutController) SubmitPayment(c *gin.Context) {
	var req models.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	session, err := ctrl.checkout.Submit(c.Request.Context(), sessionKey(c), req)
	if err != nil {
		if errors.Is(err, libs.ErrPaymentDeclined) {
			c.JSON(402, gin.H{"success": false, "message": err.Error(), "data": session})
			return
		}
		ctrl.respondError(c, session, err)
		return
	}

	respondSession(c, 200, "Payment accepted", session)
}

// AbandonCheckout godoc
// @Summary Abandon checkout
// @Description Destroy the checkout session; the cart stays as it was
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /checkout [delete]
func (ctrl *CheckoutController) AbandonCheckout(c *gin.Context) {
	ctrl.checkout.Abandon(sessionKey(c))
	c.JSON(200, gin.H{"success": true, "message": "Checkout abandoned"})
}

func (ctrl *CheckoutController) respondError(c *gin.Context, session *services.CheckoutSession, err error) {
	status := 400
	switch {
	case errors.Is(err, services.ErrNoCheckoutSession):
		status = 404
	case errors.Is(err, services.ErrCartEmpty):
		status = 409
	case errors.Is(err, services.ErrSubmissionInFlight):
		status = 409
	case errors.Is(err, libs.ErrRateTimeout):
		status = 504
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error(), "data": session})
}
