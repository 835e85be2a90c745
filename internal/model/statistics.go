package model

import "github.com/shopspring/decimal"

// Stats aggregates invoice counts and revenue. Computed server-side and
// re-fetched with every dashboard load, never derived locally.
type Stats struct {
	PendingInvoices  int             `json:"pendingInvoices"`
	ApprovedInvoices int             `json:"approvedInvoices"`
	RejectedInvoices int             `json:"rejectedInvoices"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
}
