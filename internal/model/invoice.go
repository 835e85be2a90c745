package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// OrderStatus enum constants. Only approved invoices carry an order status.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderDispatched = "dispatched"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Customer is the buyer recorded on an invoice by the field agent.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
}

// InvoiceItem is a single line item on an invoice.
type InvoiceItem struct {
	ItemName     string          `json:"itemName"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// CreatedBy references the agent who created the invoice.
type CreatedBy struct {
	Name string `json:"name"`
}

// Invoice mirrors the backend wire format. The backend owns the record; the
// dashboard only ever holds a transient copy from the last fetch.
type Invoice struct {
	ID            string          `json:"_id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	Customer      Customer        `json:"customer"`
	Items         []InvoiceItem   `json:"items"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Status        string          `json:"status"`
	OrderStatus   string          `json:"orderStatus,omitempty"`
	TrackingID    string          `json:"trackingId,omitempty"`
	CourierName   string          `json:"courierName,omitempty"`
	TrackingInfo  string          `json:"trackingInfo,omitempty"`
	ManagerNotes  string          `json:"managerNotes,omitempty"`
	CreatedBy     CreatedBy       `json:"createdBy"`
}

// CanReview reports whether approve/reject actions apply. The pending →
// approved/rejected transition is one-way from the dashboard's point of view.
func (i *Invoice) CanReview() bool {
	return i.Status == StatusPending
}

// CanTrack reports whether order-status and tracking updates apply.
func (i *Invoice) CanTrack() bool {
	return i.Status == StatusApproved
}

// RequestableOrderStatuses lists the fulfilment stages a manager may request.
// The backend accepts any of these regardless of the current stage.
func RequestableOrderStatuses() []string {
	return []string{OrderConfirmed, OrderProcessing, OrderDispatched, OrderDelivered}
}

// IsRequestableOrderStatus checks membership in RequestableOrderStatuses.
func IsRequestableOrderStatus(status string) bool {
	switch status {
	case OrderConfirmed, OrderProcessing, OrderDispatched, OrderDelivered:
		return true
	}
	return false
}
