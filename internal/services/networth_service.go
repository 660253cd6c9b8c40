package services

import (
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/views"
)

// netWorthService exposes derived net-worth views.
type netWorthService struct {
	store *store.Store
}

// NewNetWorthService creates a new NetWorthServicer.
func NewNetWorthService(s *store.Store) NetWorthServicer {
	return &netWorthService{store: s}
}

func (s *netWorthService) Summary() *views.NetWorthSummary {
	summary := views.SummarizeNetWorth(s.store.Snapshot())
	return &summary
}

func (s *netWorthService) Allocation() []views.Slice {
	return views.Allocation(s.store.Snapshot().Assets)
}
