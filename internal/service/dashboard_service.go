package service

import (
	"context"

	"managerpanel/internal/api"
	"managerpanel/internal/model"

	"golang.org/x/sync/errgroup"
)

// DashboardData is one consistent snapshot for a render: the invoice list for
// the active tab plus the aggregate stats, fetched together.
type DashboardData struct {
	Invoices []model.Invoice
	Stats    *model.Stats
}

// DashboardService loads the read side of the panel.
type DashboardService interface {
	Fetch(ctx context.Context, token, status string) (*DashboardData, error)
}

type dashboardService struct {
	backend *api.Client
}

// NewDashboardService returns a new instance of DashboardService
func NewDashboardService(backend *api.Client) DashboardService {
	return &dashboardService{backend: backend}
}

// Fetch retrieves the invoice list and the stats concurrently, one request
// each. List order is whatever the backend returned; nothing is re-sorted or
// cached between calls.
func (s *dashboardService) Fetch(ctx context.Context, token, status string) (*DashboardData, error) {
	data := &DashboardData{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.backend.InvoicesByStatus(ctx, token, status)
		if err != nil {
			return err
		}
		data.Invoices = invoices
		return nil
	})
	g.Go(func() error {
		stats, err := s.backend.DashboardStats(ctx, token)
		if err != nil {
			return err
		}
		data.Stats = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
