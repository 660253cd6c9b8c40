package services

import (
	"testing"
	"time"

	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/store"
	"github.com/berling9700/budget-tracker/internal/testutil"
	"github.com/berling9700/budget-tracker/internal/uuid"
)

func init() {
	logger.Init("test")
}

var fixedDay = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(testutil.SetupTestBlobStore(t),
		store.WithClock(func() time.Time { return fixedDay }),
		store.WithIDGenerator(uuid.NewSequence("id")),
	)
	testutil.AssertNoError(t, s.Load())
	return s
}

// seedBudget creates an active 2024 budget with Food and Rent categories.
func seedBudget(t *testing.T, s *store.Store) models.Budget {
	t.Helper()
	b, err := s.SaveBudget(reconcile.BudgetInput{
		Name: "Household",
		Year: 2024,
		Categories: []models.Category{
			{Name: "Food", Budgeted: 1200},
			{Name: "Rent", Budgeted: 12000},
		},
	}, "")
	testutil.AssertNoError(t, err)
	return b
}

func categoryID(t *testing.T, b models.Budget, name string) string {
	t.Helper()
	for _, c := range b.Categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found", name)
	return ""
}
