package handler

import (
	"net/http"

	"github.com/MarioTomas0209/system-order/internal/middleware"
	"github.com/MarioTomas0209/system-order/internal/service"
	"github.com/MarioTomas0209/system-order/pkg/pagination"
	"github.com/MarioTomas0209/system-order/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders", middleware.RequireAuth())
	{
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.POST("/search", h.SearchOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.POST("/:id/pay", h.RecordPayment)
		orders.POST("/:id/deliver", h.RecordDelivery)
		orders.POST("/:id/pay-deliver", h.PayAndDeliver)
	}
}

// ListOrders returns a paginated, filterable order listing
// @Summary      List orders
// @Description  Retrieves orders newest first, filtered by status, branch and free-text search over code/concept/phone
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        status     query  string  false  "Filter by status (in_progress, delivered, cancelled)"
// @Param        branch_id  query  string  false  "Filter by branch"
// @Param        search     query  string  false  "Free-text search"
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Items per page (default 15)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.OrderFilter{
		Status:   c.Query("status"),
		BranchID: c.Query("branch_id"),
		Search:   c.Query("search"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// CreateOrder creates a new order, capturing the initial advance as a payment
// @Summary      Create order
// @Description  Creates an order; an advance greater than zero also records an initial-advance payment in the same transaction
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

type searchOrderRequest struct {
	OrderCode string `json:"order_code" binding:"required,max=50"`
}

// SearchOrder looks up one order by exact code
// @Summary      Search order by code
// @Description  Returns the order for follow-up if found; 404 tells the client to show the new-order form
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      searchOrderRequest  true  "Order code"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/orders/search [post]
func (h *OrderHandler) SearchOrder(c *gin.Context) {
	var req searchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.SearchByCode(c.Request.Context(), req.OrderCode)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// GetOrder fetches one order with its payments and deliveries
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RecordPayment registers money received against an order
// @Summary      Record payment
// @Description  Inserts a payment and recomputes the order status from the cumulative paid amount, atomically
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Order ID"
// @Param        payload  body      service.RecordPaymentRequest  true  "Payment Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id}/pay [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RecordDelivery registers a fulfillment event against an order
// @Summary      Record delivery
// @Description  Inserts a delivery event; a complete outcome marks the order delivered regardless of payment state
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Order ID"
// @Param        payload  body      service.RecordDeliveryRequest  true  "Delivery Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) RecordDelivery(c *gin.Context) {
	var req service.RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.RecordDelivery(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// PayAndDeliver records a payment and a complete delivery in one transaction
// @Summary      Pay and deliver
// @Description  Single all-or-nothing transaction: payment insert, delivery insert with outcome complete, order marked delivered
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Order ID"
// @Param        payload  body      service.PayAndDeliverRequest  true  "Pay-and-deliver Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id}/pay-deliver [post]
func (h *OrderHandler) PayAndDeliver(c *gin.Context) {
	var req service.PayAndDeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.PayAndDeliver(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateOrder overwrites all order fields, including a manually chosen status
// @Summary      Update order
// @Description  Administrative overwrite of the full field set; the entered status is trusted as-is
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Update Order Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
