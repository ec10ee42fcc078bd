package transport

import (
	"github.com/google/uuid"
)

// CancelOrderRequest carries the mandatory operator reason for a cancellation.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// ReopenOrderRequest carries the mandatory operator reason for a reopen.
type ReopenOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// ResendConfirmationRequest selects the delivery channel.
type ResendConfirmationRequest struct {
	Channel string `json:"channel" validate:"required,oneof=sms email"`
}

// BulkCancelStaleRequest bounds the stale sweep.
type BulkCancelStaleRequest struct {
	StaleMinutes int `json:"staleMinutes" validate:"required,min=1"`
}

// OrderStatusResponse reports the outcome of a guarded status transition.
type OrderStatusResponse struct {
	OrderID  uuid.UUID `json:"orderId"`
	Status   string    `json:"status"`
	Replayed bool      `json:"replayed"`
}

// ResendConfirmationResponse reports a queued redelivery.
type ResendConfirmationResponse struct {
	OrderID        uuid.UUID `json:"orderId"`
	Channel        string    `json:"channel"`
	DeliveryStatus string    `json:"deliveryStatus"`
	Replayed       bool      `json:"replayed"`
}

// BulkCancelStaleResponse reports a stale sweep.
type BulkCancelStaleResponse struct {
	CancelledOrderIDs []uuid.UUID `json:"cancelledOrderIds"`
	TotalCancelled    int         `json:"totalCancelled"`
	Replayed          bool        `json:"replayed"`
}

// ListOrdersRequest narrows the admin order listing.
type ListOrdersRequest struct {
	RestaurantID *uuid.UUID `form:"restaurantId"`
	Status       string     `form:"status"`
	Page         int        `form:"page"`
	PageSize     int        `form:"pageSize"`
}

// OrderResponse represents an order in listing responses.
type OrderResponse struct {
	ID            uuid.UUID `json:"id"`
	RestaurantID  uuid.UUID `json:"restaurantId"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerPhone string    `json:"customerPhone"`
	TotalCents    int64     `json:"totalCents"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// OrderListResponse wraps a page of orders.
type OrderListResponse struct {
	Items    []OrderResponse `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}
