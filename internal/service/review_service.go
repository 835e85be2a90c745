package service

import (
	"context"
	"errors"
	"strings"

	"managerpanel/internal/api"
	"managerpanel/internal/model"
	"managerpanel/internal/websocket"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotPending means approve/reject was requested for an invoice that is
	// not in the pending list. The transition is one-way; nothing is sent.
	ErrNotPending = errors.New("invoice is not pending review")
	// ErrNotApproved means a fulfilment update was requested for an invoice
	// outside the approved list.
	ErrNotApproved = errors.New("invoice is not approved")
	// ErrEmptyReason aborts a rejection before any request is made.
	ErrEmptyReason = errors.New("rejection reason is required")
	// ErrBadOrderStatus rejects fulfilment stages the panel never requests.
	ErrBadOrderStatus = errors.New("unknown order status")
)

// ReviewService runs the manager side of the invoice workflow: pending →
// approved/rejected, then fulfilment updates on approved invoices. Guards are
// enforced against a fresh fetch, not a cached copy, and failed mutations
// leave the backend state untouched.
type ReviewService interface {
	Approve(ctx context.Context, token, invoiceID, notes string) error
	Reject(ctx context.Context, token, invoiceID, reason string) error
	UpdateOrder(ctx context.Context, token, invoiceID string, update api.OrderUpdate) (decimal.Decimal, error)
}

type reviewService struct {
	backend *api.Client
	hub     *websocket.Hub
}

// NewReviewService returns a new instance of ReviewService. The hub may be
// nil when no live refresh is wanted.
func NewReviewService(backend *api.Client, hub *websocket.Hub) ReviewService {
	return &reviewService{backend: backend, hub: hub}
}

// Approve moves a pending invoice to approved, attaching optional notes.
func (s *reviewService) Approve(ctx context.Context, token, invoiceID, notes string) error {
	if err := s.requireStatus(ctx, token, invoiceID, model.StatusPending, ErrNotPending); err != nil {
		return err
	}
	if err := s.backend.UpdateInvoiceStatus(ctx, token, invoiceID, model.StatusApproved, notes); err != nil {
		return err
	}
	s.notify(invoiceID)
	return nil
}

// Reject moves a pending invoice to rejected. The reason is mandatory and
// travels as the manager notes; a blank reason aborts with no request issued.
func (s *reviewService) Reject(ctx context.Context, token, invoiceID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}
	if err := s.requireStatus(ctx, token, invoiceID, model.StatusPending, ErrNotPending); err != nil {
		return err
	}
	if err := s.backend.UpdateInvoiceStatus(ctx, token, invoiceID, model.StatusRejected, reason); err != nil {
		return err
	}
	s.notify(invoiceID)
	return nil
}

// UpdateOrder sets the fulfilment stage and tracking fields of an approved
// invoice. Returns the commission awarded by the backend, if any.
func (s *reviewService) UpdateOrder(ctx context.Context, token, invoiceID string, update api.OrderUpdate) (decimal.Decimal, error) {
	if !model.IsRequestableOrderStatus(update.OrderStatus) {
		return decimal.Zero, ErrBadOrderStatus
	}
	if err := s.requireStatus(ctx, token, invoiceID, model.StatusApproved, ErrNotApproved); err != nil {
		return decimal.Zero, err
	}
	commission, err := s.backend.UpdateOrderStatus(ctx, token, invoiceID, update)
	if err != nil {
		return decimal.Zero, err
	}
	s.notify(invoiceID)
	return commission, nil
}

// requireStatus confirms the invoice currently sits in the given review state
// by looking it up in a fresh status fetch.
func (s *reviewService) requireStatus(ctx context.Context, token, invoiceID, status string, guardErr error) error {
	invoices, err := s.backend.InvoicesByStatus(ctx, token, status)
	if err != nil {
		return err
	}
	for i := range invoices {
		if invoices[i].ID == invoiceID {
			return nil
		}
	}
	return guardErr
}

func (s *reviewService) notify(invoiceID string) {
	if s.hub != nil {
		s.hub.NotifyInvoicesUpdated(invoiceID)
	}
}
