package services

import (
	"testing"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc := NewBudgetService(newTestStore(t))

		b, err := svc.CreateBudget(reconcile.BudgetInput{
			Name:       " Groceries ",
			Year:       2024,
			Categories: []models.Category{{Name: "Food", Budgeted: 600}, {Name: ""}},
		})
		testutil.AssertNoError(t, err)

		if b.ID == "" {
			t.Fatal("expected budget id")
		}
		if b.Name != "Groceries" {
			t.Errorf("expected trimmed name, got %q", b.Name)
		}
		if len(b.Categories) != 1 {
			t.Errorf("expected empty category row dropped, got %d", len(b.Categories))
		}
		list := svc.ListBudgets()
		if list.ActiveBudgetID == nil || *list.ActiveBudgetID != b.ID {
			t.Error("expected new budget to become active")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		svc := NewBudgetService(newTestStore(t))
		_, err := svc.CreateBudget(reconcile.BudgetInput{Name: "  ", Year: 2024, Categories: []models.Category{{Name: "Food"}}})
		testutil.AssertAppError(t, err, "EMPTY_BUDGET_NAME")
	})

	t.Run("no_categories", func(t *testing.T) {
		svc := NewBudgetService(newTestStore(t))
		_, err := svc.CreateBudget(reconcile.BudgetInput{Name: "Empty", Year: 2024})
		testutil.AssertAppError(t, err, "NO_CATEGORIES")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("keeps_expenses", func(t *testing.T) {
		s := newTestStore(t)
		b := seedBudget(t, s)
		food := categoryID(t, b, "Food")
		_, err := s.AddExpenses([]reconcile.IncomingExpense{{Name: "Lunch", Amount: 12, Date: "2024-02-01", CategoryID: food}})
		testutil.AssertNoError(t, err)

		svc := NewBudgetService(s)
		updated, err := svc.UpdateBudget(b.ID, reconcile.BudgetInput{Name: "Renamed", Year: 2024, Categories: b.Categories})
		testutil.AssertNoError(t, err)
		if updated.ID != b.ID || updated.Name != "Renamed" || len(updated.Expenses) != 1 {
			t.Errorf("unexpected update result %+v", updated)
		}
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewBudgetService(newTestStore(t))
		_, err := svc.UpdateBudget("nope", reconcile.BudgetInput{Name: "X", Year: 2024, Categories: []models.Category{{Name: "A"}}})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteAndActivateBudget(t *testing.T) {
	s := newTestStore(t)
	svc := NewBudgetService(s)
	first := seedBudget(t, s)
	second, err := svc.CreateBudget(reconcile.BudgetInput{Name: "Second", Year: 2025, Categories: []models.Category{{Name: "Misc"}}})
	testutil.AssertNoError(t, err)

	list, err := svc.ActivateBudget(first.ID)
	testutil.AssertNoError(t, err)
	if *list.ActiveBudgetID != first.ID {
		t.Errorf("expected %s active, got %s", first.ID, *list.ActiveBudgetID)
	}

	list, err = svc.DeleteBudget(first.ID)
	testutil.AssertNoError(t, err)
	if len(list.Budgets) != 1 || list.ActiveBudgetID == nil || *list.ActiveBudgetID != second.ID {
		t.Errorf("expected fallback to remaining budget, got %+v", list)
	}

	list, err = svc.DeleteBudget(second.ID)
	testutil.AssertNoError(t, err)
	if list.ActiveBudgetID != nil {
		t.Error("expected no active budget once all are deleted")
	}

	_, err = svc.ActivateBudget("nope")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestDrafts(t *testing.T) {
	s := newTestStore(t)
	svc := NewBudgetService(s)
	b := seedBudget(t, s)

	draft, err := svc.CopyDraft(b.ID, 0)
	testutil.AssertNoError(t, err)
	if draft.Name != "Copy of Household" || draft.Year != 2024 || len(draft.Expenses) != 0 {
		t.Errorf("unexpected copy %+v", draft)
	}
	if draft.Categories[0].ID == b.Categories[0].ID {
		t.Error("expected fresh category ids on copy")
	}
	if len(svc.ListBudgets().Budgets) != 1 {
		t.Error("drafts must not be stored")
	}

	blank := svc.BlankDraft(0)
	if blank.Name != "2024 Budget" || len(blank.Categories) != 1 {
		t.Errorf("unexpected blank draft %+v", blank)
	}

	_, err = svc.CopyDraft("nope", 2025)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestGetSummary(t *testing.T) {
	s := newTestStore(t)
	b := seedBudget(t, s)
	food := categoryID(t, b, "Food")
	_, err := s.AddExpenses([]reconcile.IncomingExpense{
		{Name: "Groceries", Amount: 50, Date: "2024-03-04", CategoryID: food},
		{Name: "Dinner", Amount: 30, Date: "2024-04-10", CategoryID: food},
	})
	testutil.AssertNoError(t, err)
	svc := NewBudgetService(s)

	t.Run("month", func(t *testing.T) {
		summary, err := svc.GetSummary(b.ID, 3)
		testutil.AssertNoError(t, err)
		row := summary.Categories[0]
		testutil.AssertFloat(t, "displayed budgeted", row.DisplayedBudgeted, 100)
		testutil.AssertFloat(t, "spent", row.Spent, 50)
		testutil.AssertFloat(t, "remaining", row.Remaining, 50)
	})

	t.Run("annual", func(t *testing.T) {
		summary, err := svc.GetSummary(b.ID, 0)
		testutil.AssertNoError(t, err)
		testutil.AssertFloat(t, "total spent", summary.TotalSpent, 80)
		testutil.AssertFloat(t, "total budgeted", summary.TotalBudgeted, 13200)
	})

	t.Run("invalid_month", func(t *testing.T) {
		_, err := svc.GetSummary(b.ID, 13)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
