package controllers

import (
	"moda-store/repositories"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *repositories.OrderRepository
}

func NewOrderController(orders *repositories.OrderRepository) *OrderController {
	return &OrderController{orders: orders}
}

// GetOrder godoc
// @Summary Get order by number
// @Description Get one of the user's orders by its order number
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param number path string true "Order number"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{number} [get]
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctrl.orders.GetOrderByNumber(c.Request.Context(), c.GetInt("user_id"), c.Param("number"))
	if err != nil {
		c.JSON(404, gin.H{"success": false, "message": "Order not found"})
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Order retrieved",
		"data":    order,
	})
}
