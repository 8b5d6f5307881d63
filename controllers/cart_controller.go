package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/models"
	"medicine-chatbot-backend/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// GetCart returns the session's cart
func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.cartService.Get(c.Request.Context(), middleware.GetSessionKey(c))
	if err != nil {
		cc.fail(c, err, "Failed to fetch cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddToCart adds a medicine by medicineId or name
func (cc *CartController) AddToCart(c *gin.Context) {
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cart, err := cc.cartService.Add(c.Request.Context(), middleware.GetSessionKey(c), req)
	if err != nil {
		cc.fail(c, err, "Failed to add item to cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
}

// UpdateCart sets the quantity of a cart line
func (cc *CartController) UpdateCart(c *gin.Context) {
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cart, err := cc.cartService.Update(c.Request.Context(), middleware.GetSessionKey(c), req)
	if err != nil {
		cc.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
}

// DeleteFromCart removes a single cart line
func (cc *CartController) DeleteFromCart(c *gin.Context) {
	req, ok := bindCartRequest(c)
	if !ok {
		return
	}

	cart, err := cc.cartService.Remove(c.Request.Context(), middleware.GetSessionKey(c), req)
	if err != nil {
		cc.fail(c, err, "Failed to remove item from cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": cart})
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	cart, err := cc.cartService.Clear(c.Request.Context(), middleware.GetSessionKey(c))
	if err != nil {
		cc.fail(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully", "cart": cart})
}

func (cc *CartController) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrMissingIdentifier), errors.Is(err, services.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMedicineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
	case errors.Is(err, services.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	default:
		logger.Log.Error().Err(err).Str("session", middleware.GetSessionKey(c)).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   msg,
			"details": err.Error(),
		})
	}
}

// bindCartRequest reads the JSON body, falling back to query parameters so
// DELETE requests without a body still work.
func bindCartRequest(c *gin.Context) (models.CartRequest, bool) {
	var req models.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return req, false
	}

	if req.MedicineID == "" {
		req.MedicineID = c.Query("medicineId")
	}
	if req.Name == "" {
		req.Name = c.Query("name")
	}
	if req.Quantity == nil {
		if q, err := strconv.Atoi(c.Query("quantity")); err == nil {
			req.Quantity = &q
		}
	}
	return req, true
}
