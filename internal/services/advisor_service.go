package services

import (
	"context"
	"strings"

	"github.com/berling9700/budget-tracker/internal/assistant"
	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/store"
)

// advisorService answers questions with the current state attached.
type advisorService struct {
	store   *store.Store
	advisor Advisor
}

// NewAdvisorService creates a new AdvisorServicer. advisor may be nil, in
// which case every call reports NOT_CONFIGURED.
func NewAdvisorService(s *store.Store, advisor Advisor) AdvisorServicer {
	return &advisorService{store: s, advisor: advisor}
}

// Advise sends query with every budget, asset and liability to the advisor.
func (s *advisorService) Advise(ctx context.Context, query string, page assistant.Page, history []assistant.ChatMessage) (string, error) {
	if s.advisor == nil {
		return "", apperrors.WithMessage(apperrors.ErrNotConfigured, "The AI assistant requires a Gemini API key")
	}
	if strings.TrimSpace(query) == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Query is required")
	}
	state := s.store.Snapshot()
	return s.advisor.Advice(ctx, assistant.AdviceRequest{
		Query:       query,
		Page:        page,
		History:     history,
		Budgets:     state.Budgets,
		Assets:      state.Assets,
		Liabilities: state.Liabilities,
	})
}
