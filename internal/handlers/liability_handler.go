package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/services"
)

// LiabilityHandler handles liabilities and the net-worth views.
type LiabilityHandler struct {
	liabilityService services.LiabilityServicer
	netWorthService  services.NetWorthServicer
}

// NewLiabilityHandler creates a new LiabilityHandler.
func NewLiabilityHandler(liabilityService services.LiabilityServicer, netWorthService services.NetWorthServicer) *LiabilityHandler {
	return &LiabilityHandler{liabilityService: liabilityService, netWorthService: netWorthService}
}

// LiabilityRequest represents the liability form.
type LiabilityRequest struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

// @Summary     List liabilities
// @Description List every liability
// @Tags        liabilities
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]models.Liability "Liabilities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /liabilities [get]
func (h *LiabilityHandler) GetLiabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"liabilities": h.liabilityService.ListLiabilities()})
}

// @Summary     Create a liability
// @Description Create a liability
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body LiabilityRequest true "Liability details"
// @Success     201 {object} map[string]models.Liability "Liability created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities [post]
func (h *LiabilityHandler) CreateLiability(c *gin.Context) {
	h.saveLiability(c, "", http.StatusCreated)
}

// @Summary     Update a liability
// @Description Edit a liability's name and amount
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Liability ID"
// @Param       request body LiabilityRequest true "Liability details"
// @Success     200 {object} map[string]models.Liability "Liability updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities/{id} [put]
func (h *LiabilityHandler) UpdateLiability(c *gin.Context) {
	h.saveLiability(c, c.Param("id"), http.StatusOK)
}

func (h *LiabilityHandler) saveLiability(c *gin.Context, editingID string, status int) {
	var req LiabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	liability, err := h.liabilityService.SaveLiability(reconcile.LiabilityInput(req), editingID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(status, gin.H{"liability": liability})
}

// DeleteLiability removes a liability. Requires confirm.
// @Summary     Delete a liability
// @Description Delete a liability
// @Tags        liabilities
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Liability ID"
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Success     200 {object} map[string]string "Liability deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /liabilities/{id} [delete]
func (h *LiabilityHandler) DeleteLiability(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.liabilityService.DeleteLiability(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Liability deleted successfully"})
}

// GetNetWorth returns totals, the assets-vs-liabilities chart and the
// history series.
// @Summary     Get net worth
// @Description Return totals, the assets-vs-liabilities chart and the net-worth history
// @Tags        net-worth
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} views.NetWorthSummary "Net worth"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /net-worth [get]
func (h *LiabilityHandler) GetNetWorth(c *gin.Context) {
	c.JSON(http.StatusOK, h.netWorthService.Summary())
}

// GetAllocation returns the portfolio allocation chart.
// @Summary     Get allocation
// @Description Return the portfolio allocation by asset type
// @Tags        net-worth
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]views.Slice "Allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /allocation [get]
func (h *LiabilityHandler) GetAllocation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"allocation": h.netWorthService.Allocation()})
}
