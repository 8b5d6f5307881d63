package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// CreateOrder places an order from the session's cart
func (oc *OrderController) CreateOrder(c *gin.Context) {
	key := middleware.GetSessionKey(c)

	order, err := oc.orderService.Place(c.Request.Context(), key)
	if errors.Is(err, services.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No medicines in order"})
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("session", key).Msg("Failed to place order")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

// GetOrders lists the session's orders, newest first
func (oc *OrderController) GetOrders(c *gin.Context) {
	key := middleware.GetSessionKey(c)

	orders, err := oc.orderService.List(c.Request.Context(), key)
	if err != nil {
		logger.Log.Error().Err(err).Str("session", key).Msg("Failed to fetch orders")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
