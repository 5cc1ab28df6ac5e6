package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// DashboardService exposes the merchant read models: aggregate stats and
// the buyer list. All values are backend-derived; nothing here recomputes
// rates or scores.
type DashboardService struct {
	gw     *gateway.Client
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(gw *gateway.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		gw:     gw,
		logger: logger,
	}
}

// Stats fetches the dashboard aggregate.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := s.gw.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Buyers fetches one page of the buyer read model. Pages are 1-indexed.
func (s *DashboardService) Buyers(ctx context.Context, page, perPage int) ([]domain.Buyer, error) {
	if page < 1 {
		return nil, &apperrors.ErrValidation{Field: "page", Reason: "pages are 1-indexed"}
	}
	if perPage < 1 {
		return nil, &apperrors.ErrValidation{Field: "per_page", Reason: "must be at least 1"}
	}

	var buyers []domain.Buyer
	path := fmt.Sprintf("/buyers?page=%d&per_page=%d", page, perPage)
	if err := s.gw.Get(ctx, path, &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

// FilterBuyersByTier is the pure client-side risk-tier filter over a
// fetched page, re-applied whenever the page changes. The tier is display
// banding of the backend-derived return rate, never a workflow input.
func FilterBuyersByTier(buyers []domain.Buyer, tier domain.RiskLevel) []domain.Buyer {
	if tier == "" {
		return buyers
	}
	filtered := make([]domain.Buyer, 0, len(buyers))
	for _, b := range buyers {
		if b.RiskTier() == tier {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
