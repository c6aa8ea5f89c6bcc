package handler

import (
	"net/http"

	"github.com/MarioTomas0209/system-order/internal/middleware"
	"github.com/MarioTomas0209/system-order/internal/service"
	"github.com/MarioTomas0209/system-order/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireAuth())
	{
		reports.GET("/orders", h.GetOrdersReport)
		reports.GET("/payments", h.GetPaymentsReport)
		reports.GET("/deliveries", h.GetDeliveriesReport)
	}
}

// GetOrdersReport handles GET /api/reports/orders
// @Summary      Orders report
// @Description  Order counts by status, month and branch, plus monthly sales excluding cancelled orders
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.OrdersReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/orders [get]
func (h *ReportHandler) GetOrdersReport(c *gin.Context) {
	report, err := h.reportService.GetOrdersReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetPaymentsReport handles GET /api/reports/payments
// @Summary      Payments report
// @Description  Payment counts and collected amounts broken down by method and month
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.PaymentsReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/payments [get]
func (h *ReportHandler) GetPaymentsReport(c *gin.Context) {
	report, err := h.reportService.GetPaymentsReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetDeliveriesReport handles GET /api/reports/deliveries
// @Summary      Deliveries report
// @Description  Delivery counts broken down by status and method
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DeliveriesReport}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/deliveries [get]
func (h *ReportHandler) GetDeliveriesReport(c *gin.Context) {
	report, err := h.reportService.GetDeliveriesReport(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
