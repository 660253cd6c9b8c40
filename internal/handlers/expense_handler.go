package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/pagination"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/services"
)

// ExpenseHandler handles expenses of the active budget.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRecord is one incoming expense. The category is given by id, by
// name, or both; a known id wins.
type ExpenseRecord struct {
	Name         string  `json:"name" binding:"required"`
	Amount       float64 `json:"amount" binding:"gt=0"`
	Date         string  `json:"date" binding:"required,iso_date"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
}

// AddExpensesRequest represents a batch of expenses.
type AddExpensesRequest struct {
	Expenses []ExpenseRecord `json:"expenses" binding:"required,min=1,dive"`
}

// ImportCSVRequest carries raw CSV text.
type ImportCSVRequest struct {
	CSV string `json:"csv" binding:"required"`
}

// UpdateExpenseRequest represents the expense edit form.
type UpdateExpenseRequest struct {
	Name       string  `json:"name" binding:"required"`
	Amount     float64 `json:"amount" binding:"gt=0"`
	Date       string  `json:"date" binding:"required,iso_date"`
	CategoryID string  `json:"categoryId" binding:"required"`
}

// SelectionRequest names a set of expenses.
type SelectionRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// RecategorizeRequest moves a set of expenses to a category.
type RecategorizeRequest struct {
	IDs        []string `json:"ids" binding:"required,min=1"`
	CategoryID string   `json:"categoryId" binding:"required"`
}

// GetExpenses lists the active budget's expenses for ?month and optional
// ?category_id, newest first.
// @Summary     List expenses
// @Description List the active budget's expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    ApiKeyAuth
// @Param       month query integer false "Month 1-12, or 0 for the annual view"
// @Param       category_id query string false "Only expenses in this category"
// @Param       page query integer false "Page number"
// @Param       page_size query integer false "Items per page"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(services.ExpenseFilter{
		Month:      month,
		CategoryID: c.Query("category_id"),
	}, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddExpenses imports a batch into the active budget. Rows outside the
// budget year are skipped and counted in the report.
// @Summary     Add expenses
// @Description Add a batch of expenses to the active budget. Rows outside the budget year are skipped and counted
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AddExpensesRequest true "Expenses"
// @Success     201 {object} map[string]reconcile.ImportReport "Import report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) AddExpenses(c *gin.Context) {
	var req AddExpensesRequest
	if !bindJSON(c, &req) {
		return
	}
	incoming := make([]reconcile.IncomingExpense, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		incoming = append(incoming, reconcile.IncomingExpense(e))
	}
	report, err := h.expenseService.AddExpenses(incoming)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// ImportCSV parses CSV text with the AI parser and imports the result.
// @Summary     Import expenses from CSV
// @Description Parse CSV text with the assistant and add the expenses to the active budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ImportCSVRequest true "CSV text"
// @Success     201 {object} map[string]reconcile.ImportReport "Import report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     502 {object} ErrorResponse "Upstream failure"
// @Failure     503 {object} ErrorResponse "Not configured"
// @Router      /expenses/csv [post]
func (h *ExpenseHandler) ImportCSV(c *gin.Context) {
	var req ImportCSVRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.expenseService.ImportCSV(c.Request.Context(), req.CSV)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// UpdateExpense replaces an expense.
// @Summary     Update an expense
// @Description Replace an expense of the active budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Expense details"
// @Success     200 {object} map[string]models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.UpdateExpense(models.Expense{
		ID:         c.Param("id"),
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       req.Date,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes one expense.
// @Summary     Delete an expense
// @Description Delete one expense of the active budget
// @Tags        expenses
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenseService.DeleteExpense(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// DeleteSelected removes a selection of expenses. Requires confirm.
// @Summary     Delete selected expenses
// @Description Delete a selection of active-budget expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Param       request body SelectionRequest true "Expense IDs"
// @Success     200 {object} map[string]int "Deleted count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/delete [post]
func (h *ExpenseHandler) DeleteSelected(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	var req SelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.expenseService.DeleteExpenses(req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Recategorize moves a selection of expenses to another category.
// @Summary     Recategorize expenses
// @Description Move a selection of expenses to another category
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecategorizeRequest true "Expense IDs and target category"
// @Success     200 {object} map[string]models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/recategorize [post]
func (h *ExpenseHandler) Recategorize(c *gin.Context) {
	var req RecategorizeRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.expenseService.Recategorize(req.IDs, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteInView clears every expense visible in ?month. Requires confirm.
// @Summary     Delete expenses in view
// @Description Delete every active-budget expense shown for a month or the whole year
// @Tags        expenses
// @Produce     json
// @Security    ApiKeyAuth
// @Param       month query integer false "Month 1-12, or 0 for the annual view"
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Success     200 {object} map[string]int "Deleted count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [delete]
func (h *ExpenseHandler) DeleteInView(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	month, err := parseMonth(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	n, err := h.expenseService.DeleteExpensesInView(month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
