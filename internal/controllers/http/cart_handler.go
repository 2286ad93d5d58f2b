package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := h.carts.AddToCart(c.Request.Context(), currentUserID(c), req.ProductID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "product added to cart"})
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
