package controllers

import (
	"strconv"

	"moda-store/models"
	"moda-store/repositories"
	"moda-store/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cart     *services.CartService
	catalog  *repositories.CatalogRepository
	shipping *services.ShippingService
}

func NewCartController(cart *services.CartService, catalog *repositories.CatalogRepository, shipping *services.ShippingService) *CartController {
	return &CartController{cart: cart, catalog: catalog, shipping: shipping}
}

// Any open shipping quote is keyed to the cart contents, so every mutation
// has to re-key the session's resolver.
func (ctrl *CartController) notifyShipping(key string, cart *models.Cart) {
	ctrl.shipping.Resolver(key).UpdateCart(cart)
}

func (ctrl *CartController) respondCart(c *gin.Context, message string, cart *models.Cart) {
	c.JSON(200, gin.H{
		"success": true,
		"message": message,
		"data": gin.H{
			"lines": cart.Lines,
			"total": cart.Total(),
			"count": cart.Count(),
		},
	})
}

// GetCart godoc
// @Summary Get cart
// @Description Get the current user's cart with totals
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cart.Get(c.Request.Context(), sessionKey(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not load cart"})
		return
	}
	ctrl.respondCart(c, "Cart retrieved", cart)
}

// AddToCart godoc
// @Summary Add product to cart
// @Description Add one unit of a product variant; adding the same variant again increments it
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartLineRequest true "Cart line"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	product, err := ctrl.catalog.GetProductByID(c.Request.Context(), req.ProductID)
	if err != nil || product == nil {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	key := sessionKey(c)
	cart, err := ctrl.cart.AddLine(c.Request.Context(), key, product, req.Size, req.Color)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not update cart"})
		return
	}

	ctrl.notifyShipping(key, cart)
	ctrl.respondCart(c, "Product added to cart", cart)
}

// RemoveFromCart godoc
// @Summary Remove product from cart
// @Description Remove every line of the given product from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/{id} [delete]
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	key := sessionKey(c)
	cart, err := ctrl.cart.RemoveLine(c.Request.Context(), key, id)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not update cart"})
		return
	}

	ctrl.notifyShipping(key, cart)
	ctrl.respondCart(c, "Product removed from cart", cart)
}

// SetCartQuantity godoc
// @Summary Adjust line quantity
// @Description Apply a signed delta to a cart line's quantity; it never drops below one
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.SetQuantityRequest true "Quantity delta"
// @Success 200 {object} models.Response
// @Router /cart/{id}/quantity [patch]
func (ctrl *CartController) SetCartQuantity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	key := sessionKey(c)
	cart, err := ctrl.cart.SetQuantity(c.Request.Context(), key, id, req.Delta)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Could not update cart"})
		return
	}

	ctrl.notifyShipping(key, cart)
	ctrl.respondCart(c, "Quantity updated", cart)
}
