package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CategoryRequest is one row of the budget form. A row without an id is a
// new category.
type CategoryRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Budgeted float64 `json:"budgeted" binding:"gte=0"`
}

// BudgetRequest represents the budget form. Name, year and category rules
// are enforced by the service so their errors carry specific codes.
type BudgetRequest struct {
	Name       string            `json:"name"`
	Year       int               `json:"year"`
	Categories []CategoryRequest `json:"categories" binding:"dive"`
}

func (r BudgetRequest) input() reconcile.BudgetInput {
	cats := make([]models.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, models.Category{ID: c.ID, Name: c.Name, Budgeted: c.Budgeted})
	}
	return reconcile.BudgetInput{Name: r.Name, Year: r.Year, Categories: cats}
}

// GetBudgets lists every budget and the active one.
// @Summary     List budgets
// @Description List every budget and the active budget ID
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.BudgetList "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	c.JSON(http.StatusOK, h.budgetService.ListBudgets())
}

// CreateBudget saves a new budget and makes it active.
// @Summary     Create a budget
// @Description Create a budget and make it the active one
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body BudgetRequest true "Budget details"
// @Success     201 {object} map[string]models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.CreateBudget(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateBudget edits a budget's name, year and categories.
// @Summary     Update a budget
// @Description Edit a budget's name, year and categories
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Budget ID"
// @Param       request body BudgetRequest true "Budget details"
// @Success     200 {object} map[string]models.Budget "Budget updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.budgetService.UpdateBudget(c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget removes a budget with all its expenses. Requires confirm.
// @Summary     Delete a budget
// @Description Delete a budget together with its expenses
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Budget ID"
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Success     200 {object} services.BudgetList "Remaining budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	list, err := h.budgetService.DeleteBudget(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ActivateBudget selects the active budget.
// @Summary     Activate a budget
// @Description Make a budget the active one
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetList "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/activate [post]
func (h *BudgetHandler) ActivateBudget(c *gin.Context) {
	list, err := h.budgetService.ActivateBudget(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CopyBudget returns an unsaved copy of a budget for ?year (default: this
// year).
// @Summary     Copy a budget
// @Description Return an unsaved copy of a budget's categories for another year
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Budget ID"
// @Param       year query integer false "Budget year, defaults to the current year"
// @Success     200 {object} map[string]models.Budget "Draft copy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{id}/copy [get]
func (h *BudgetHandler) CopyBudget(c *gin.Context) {
	year, err := parseYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	draft, err := h.budgetService.CopyDraft(c.Param("id"), year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": draft})
}

// DraftBudget returns an unsaved blank budget for ?year.
// @Summary     Draft a blank budget
// @Description Return an unsaved blank budget for a year
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       year query integer false "Budget year, defaults to the current year"
// @Success     200 {object} map[string]models.Budget "Draft budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets/draft [get]
func (h *BudgetHandler) DraftBudget(c *gin.Context) {
	year, err := parseYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": h.budgetService.BlankDraft(year)})
}

// GetBudgetSummary projects a budget onto ?month.
// @Summary     Get a budget summary
// @Description Project a budget's categories and spending onto a month or the whole year
// @Tags        budgets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Budget ID"
// @Param       month query integer false "Month 1-12, or 0 for the annual view"
// @Success     200 {object} views.BudgetSummary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /budgets/{id}/summary [get]
func (h *BudgetHandler) GetBudgetSummary(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	summary, err := h.budgetService.GetSummary(c.Param("id"), month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
