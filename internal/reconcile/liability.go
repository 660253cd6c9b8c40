package reconcile

import (
	"strings"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

// LiabilityInput carries the editable fields of a liability.
type LiabilityInput struct {
	Name   string
	Amount float64
}

// CreateOrUpdateLiability appends a new liability or replaces editingID.
func CreateOrUpdateLiability(liabilities []models.Liability, in LiabilityInput, editingID string, ids uuid.Generator) ([]models.Liability, models.Liability, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return liabilities, models.Liability{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Liability name is required")
	}
	if in.Amount < 0 {
		return liabilities, models.Liability{}, apperrors.WithMessage(apperrors.ErrInvalidAmount, "Liability amount cannot be negative")
	}

	out := append([]models.Liability{}, liabilities...)
	if editingID == "" {
		l := models.Liability{ID: ids.NewID(), Name: name, Amount: in.Amount}
		return append(out, l), l, nil
	}
	for i := range out {
		if out[i].ID == editingID {
			out[i] = models.Liability{ID: editingID, Name: name, Amount: in.Amount}
			return out, out[i], nil
		}
	}
	return liabilities, models.Liability{}, apperrors.ErrLiabilityNotFound
}

// DeleteLiability removes a liability by id.
func DeleteLiability(liabilities []models.Liability, id string) ([]models.Liability, error) {
	out := make([]models.Liability, 0, len(liabilities))
	for _, l := range liabilities {
		if l.ID != id {
			out = append(out, l)
		}
	}
	if len(out) == len(liabilities) {
		return liabilities, apperrors.ErrLiabilityNotFound
	}
	return out, nil
}
