package services

import (
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/store"
)

// liabilityService handles liabilities.
type liabilityService struct {
	store *store.Store
}

// NewLiabilityService creates a new LiabilityServicer.
func NewLiabilityService(s *store.Store) LiabilityServicer {
	return &liabilityService{store: s}
}

// ListLiabilities returns every liability.
func (s *liabilityService) ListLiabilities() []models.Liability {
	return s.store.Snapshot().Liabilities
}

// SaveLiability creates a liability, or edits editingID when it is set.
func (s *liabilityService) SaveLiability(in reconcile.LiabilityInput, editingID string) (*models.Liability, error) {
	l, err := s.store.SaveLiability(in, editingID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLiability removes a liability.
func (s *liabilityService) DeleteLiability(id string) error {
	return s.store.DeleteLiability(id)
}
