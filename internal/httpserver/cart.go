package httpserver

import (
	"errors"
	"net/http"

	"retroshop/internal/domain"
	cartsvc "retroshop/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// emptyCartView is what callers get when no cart row exists yet; a nil
// snapshot and an empty cart are the same thing to clients.
func emptyCartView() *cartsvc.View {
	return &cartsvc.View{Items: []cartsvc.ItemView{}, Subtotal: "0.00"}
}

func (h handlers) getCart(c *gin.Context) {
	view, err := h.deps.CartSvc.GetCartWithItems(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	if view == nil {
		view = emptyCartView()
	}
	c.JSON(http.StatusOK, view)
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId and quantity are required"})
		return
	}

	view, err := h.deps.CartSvc.AddToCart(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h handlers) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	view, err := h.deps.CartSvc.UpdateCartItemQuantity(c.Request.Context(), currentUserID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	if view == nil {
		view = emptyCartView()
	}
	c.JSON(http.StatusOK, view)
}

func (h handlers) removeCartItem(c *gin.Context) {
	view, err := h.deps.CartSvc.RemoveFromCart(c.Request.Context(), currentUserID(c), c.Param("itemId"))
	if err != nil {
		h.cartError(c, err)
		return
	}
	if view == nil {
		view = emptyCartView()
	}
	c.JSON(http.StatusOK, view)
}

func (h handlers) clearCart(c *gin.Context) {
	if err := h.deps.CartSvc.ClearCart(c.Request.Context(), currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h handlers) cartCount(c *gin.Context) {
	count := h.deps.CartSvc.GetCartItemCount(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h handlers) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cartsvc.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Printf("cart handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart operation failed"})
	}
}
