package importer

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	httperr "github.com/orderpulse-lab/orderpulse/internal/core/errors"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist order"
)

// upsertError carries the structured HTTP error shape from a helper back to
// the handler. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type upsertError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *upsertError) Error() string {
	return e.message
}

// RegisterRoutes registers the order upsert endpoint.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/orders", s.UpsertHandler)
}

// UpsertHandler handles HTTP POST requests for single-record order upserts.
// Re-posting an order_id fully overwrites the stored record
// (last-write-wins), mirroring the bulk import semantics.
func (s *Service) UpsertHandler(c *gin.Context) {
	order, payloadSize, err := s.parseOrder(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if vErr := order.Validate(); vErr != nil {
		slog.Warn("Order validation failed", "error", vErr, "order_id", order.OrderID)
		writeError(c, &upsertError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    vErr.Error(),
		})
		return
	}

	slog.Info("Received order upsert",
		"order_id", order.OrderID,
		"order_item_id", order.OrderItemID,
		"payload_size", payloadSize)

	if err := s.store.UpsertOrder(c.Request.Context(), order); err != nil {
		slog.Error("Failed to persist order", "error", err, "order_id", order.OrderID)
		writeError(c, &upsertError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored", "order_id": order.OrderID})
}

// parseOrder reads the raw request body and binds it into an Order struct.
// Returns the parsed order and the raw payload size (used for structured
// logging upstream).
func (s *Service) parseOrder(c *gin.Context) (*v1.Order, int, *upsertError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &upsertError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &upsertError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var order v1.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &upsertError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &order, len(bodyBytes), nil
}

// writeError serializes an upsertError as the JSON HTTP response.
func writeError(c *gin.Context, err *upsertError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
