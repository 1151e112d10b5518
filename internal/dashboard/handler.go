package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/orderpulse-lab/orderpulse/internal/core/errors"
	coremetrics "github.com/orderpulse-lab/orderpulse/internal/core/metrics"
)

// RegisterRoutes registers all dashboard API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Dashboard views.
	r.GET("/v1/dashboard/overview", s.HandleOverview)
	r.GET("/v1/dashboard/delivery", s.HandleDeliveryOverview)

	// Filtering endpoints behind the dashboards' selectors.
	r.GET("/v1/metrics/breakdown", s.HandleBreakdowns)
	r.GET("/v1/metrics/delivery", s.HandleDeliveryStats)
}

// HandleOverview handles GET /v1/dashboard/overview
// Query parameters: metric (sales | profits | orders; default orders)
func (s *Service) HandleOverview(c *gin.Context) {
	var query struct {
		Metric string `form:"metric"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.Overview(c.Request.Context(), query.Metric)
	if err != nil {
		writeQueryError(c, "Failed to compute overview", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleBreakdowns handles GET /v1/metrics/breakdown
// Query parameters: metric (default orders)
func (s *Service) HandleBreakdowns(c *gin.Context) {
	var query struct {
		Metric string `form:"metric"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.Breakdowns(c.Request.Context(), query.Metric)
	if err != nil {
		writeQueryError(c, "Failed to compute metric breakdowns", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDeliveryOverview handles GET /v1/dashboard/delivery
func (s *Service) HandleDeliveryOverview(c *gin.Context) {
	resp, err := s.DeliveryOverview(c.Request.Context())
	if err != nil {
		writeQueryError(c, "Failed to compute delivery overview", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDeliveryStats handles GET /v1/metrics/delivery
// Query parameters: market (all | us | eu | asia), shipping_mode (free string)
func (s *Service) HandleDeliveryStats(c *gin.Context) {
	var query struct {
		Market       string `form:"market,default=all"`
		ShippingMode string `form:"shipping_mode,default=all"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.DeliveryStats(c.Request.Context(), query.Market, query.ShippingMode)
	if err != nil {
		writeQueryError(c, "Failed to compute delivery stats", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeQueryError maps service errors to the HTTP error taxonomy.
func writeQueryError(c *gin.Context, msg string, err error) {
	var fieldErr *coremetrics.FieldError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   msg,
			Details:   err.Error(),
		})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidFieldError,
			Message:   msg,
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   msg,
			Details:   err.Error(),
		})
	}
}
