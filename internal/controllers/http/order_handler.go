package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	// an empty body means "ship to my stored address"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), currentUserID(c), req.ShippingAddress)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OrderPlacedResponse{Message: "order placed successfully", OrderID: order.ID})
}

func (h *Handler) GetOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
