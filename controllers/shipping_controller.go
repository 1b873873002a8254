package controllers

import (
	"errors"

	"moda-store/models"
	"moda-store/services"

	"github.com/gin-gonic/gin"
)

type ShippingController struct {
	cart     *services.CartService
	shipping *services.ShippingService
}

func NewShippingController(cart *services.CartService, shipping *services.ShippingService) *ShippingController {
	return &ShippingController{cart: cart, shipping: shipping}
}

// EnterCEP godoc
// @Summary Enter destination CEP
// @Description Record the destination CEP and start a debounced shipping quote
// @Tags Shipping
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CEPRequest true "CEP"
// @Success 200 {object} models.Response
// @Router /shipping/cep [post]
func (ctrl *ShippingController) EnterCEP(c *gin.Context) {
	var req models.CEPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	key := sessionKey(c)
	cart, err := ctrl.cart.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not load cart"})
		return
	}

	snapshot := ctrl.shipping.EnterCEP(c.Request.Context(), key, req.CEP, cart)

	c.JSON(200, gin.H{
		"success": true,
		"message": "CEP recorded",
		"data":    snapshot,
	})
}

// GetQuote godoc
// @Summary Get shipping quote state
// @Description Poll the resolver for the current quote state and options
// @Tags Shipping
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /shipping/quote [get]
func (ctrl *ShippingController) GetQuote(c *gin.Context) {
	snapshot := ctrl.shipping.Resolver(sessionKey(c)).Snapshot()

	c.JSON(200, gin.H{
		"success": true,
		"message": "Quote state retrieved",
		"data":    snapshot,
	})
}

// SelectOption godoc
// @Summary Select a shipping option
// @Description Select one of the quoted options by carrier and price
// @Tags Shipping
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SelectShippingRequest true "Option"
// @Success 200 {object} models.Response
// @Failure 409 {object} models.ErrorResponse
// @Router /shipping/select [post]
func (ctrl *ShippingController) SelectOption(c *gin.Context) {
	var req models.SelectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	resolver := ctrl.shipping.Resolver(sessionKey(c))
	if err := resolver.Select(req.Carrier, req.Price); err != nil {
		status := 400
		if errors.Is(err, services.ErrSelectNotReady) {
			status = 409
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Shipping option selected",
		"data":    resolver.Snapshot(),
	})
}

// GetAddress godoc
// @Summary Get saved address
// @Description Get the session's saved shipping address
// @Tags Shipping
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /shipping/address [get]
func (ctrl *ShippingController) GetAddress(c *gin.Context) {
	addr, err := ctrl.shipping.GetAddress(c.Request.Context(), sessionKey(c))
	if err != nil || addr == nil {
		c.JSON(200, gin.H{"success": true, "message": "No address saved", "data": nil})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Address retrieved",
		"data":    addr,
	})
}

// SaveAddress godoc
// @Summary Save address
// @Description Save the session's shipping address
// @Tags Shipping
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ShippingAddress true "Address"
// @Success 200 {object} models.Response
// @Router /shipping/address [put]
func (ctrl *ShippingController) SaveAddress(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if err := ctrl.shipping.SaveAddress(c.Request.Context(), sessionKey(c), &addr); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not save address"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Address saved", "data": addr})
}
