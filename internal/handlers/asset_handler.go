package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
	"github.com/berling9700/budget-tracker/internal/services"
)

// AssetHandler handles assets, holdings and quotes.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AssetRequest represents the asset form. Value is ignored for account
// types, whose value comes from their holdings.
type AssetRequest struct {
	Name  string  `json:"name" binding:"required"`
	Type  string  `json:"type" binding:"required,asset_type"`
	Value float64 `json:"value" binding:"gte=0"`
}

func (r AssetRequest) input() reconcile.AssetInput {
	return reconcile.AssetInput{Name: r.Name, Type: models.AssetType(r.Type), Value: r.Value}
}

// HoldingRequest represents the holding form.
type HoldingRequest struct {
	Ticker        string  `json:"ticker" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Shares        float64 `json:"shares" binding:"gt=0"`
	PurchasePrice float64 `json:"purchasePrice" binding:"gte=0"`
	CurrentPrice  float64 `json:"currentPrice" binding:"gte=0"`
}

func (r HoldingRequest) input() reconcile.HoldingInput {
	return reconcile.HoldingInput(r)
}

// GetAssets lists every asset with derived values.
// @Summary     List assets
// @Description List every asset with derived values
// @Tags        assets
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]views.AssetView "Assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assets": h.assetService.ListAssets()})
}

// CreateAsset saves a new asset.
// @Summary     Create an asset
// @Description Create a single-value asset or an investment account
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AssetRequest true "Asset details"
// @Success     201 {object} map[string]views.AssetView "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req AssetRequest
	if !bindJSON(c, &req) {
		return
	}
	asset, err := h.assetService.SaveAsset(req.input(), "")
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// UpdateAsset edits an asset.
// @Summary     Update an asset
// @Description Edit an asset's name, type and value
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Asset ID"
// @Param       request body AssetRequest true "Asset details"
// @Success     200 {object} map[string]views.AssetView "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req AssetRequest
	if !bindJSON(c, &req) {
		return
	}
	asset, err := h.assetService.SaveAsset(req.input(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes an asset and its holdings. Requires confirm.
// @Summary     Delete an asset
// @Description Delete an asset and its holdings
// @Tags        assets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Asset ID"
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Success     200 {object} map[string]string "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	if err := h.assetService.DeleteAsset(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

// AddHolding adds a holding to an account asset.
// @Summary     Add a holding
// @Description Add a holding to an investment account
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Asset ID"
// @Param       request body HoldingRequest true "Holding details"
// @Success     201 {object} map[string]views.HoldingView "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/holdings [post]
func (h *AssetHandler) AddHolding(c *gin.Context) {
	var req HoldingRequest
	if !bindJSON(c, &req) {
		return
	}
	holding, err := h.assetService.AddHolding(c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// UpdateHolding edits a holding in whichever asset holds it.
// @Summary     Update a holding
// @Description Edit a holding in whichever account holds it
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Holding ID"
// @Param       request body HoldingRequest true "Holding details"
// @Success     200 {object} map[string]views.HoldingView "Holding updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings/{id} [put]
func (h *AssetHandler) UpdateHolding(c *gin.Context) {
	var req HoldingRequest
	if !bindJSON(c, &req) {
		return
	}
	holding, err := h.assetService.UpdateHolding(c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// DeleteHolding removes a holding.
// @Summary     Delete a holding
// @Description Remove a holding from an investment account
// @Tags        assets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Asset ID"
// @Param       holdingId path string true "Holding ID"
// @Success     200 {object} map[string]string "Holding deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Conflict"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/holdings/{holdingId} [delete]
func (h *AssetHandler) DeleteHolding(c *gin.Context) {
	if err := h.assetService.DeleteHolding(c.Param("id"), c.Param("holdingId")); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// RefreshPrices fetches current prices for every held ticker. The request
// blocks until the whole batch has run.
// @Summary     Refresh prices
// @Description Fetch a current price for every held ticker and update the holdings. Blocks until the batch is done
// @Tags        assets
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]quotes.RunResult "Refresh result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Upstream failure"
// @Failure     503 {object} ErrorResponse "Not configured"
// @Router      /assets/refresh-prices [post]
func (h *AssetHandler) RefreshPrices(c *gin.Context) {
	result, err := h.assetService.RefreshPrices(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetQuote looks up the current quote of one ticker.
// @Summary     Look up a quote
// @Description Fetch the current quote of one ticker
// @Tags        assets
// @Produce     json
// @Security    ApiKeyAuth
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} map[string]quotes.Quote "Quote"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     502 {object} ErrorResponse "Upstream failure"
// @Failure     503 {object} ErrorResponse "Not configured"
// @Router      /quotes/{ticker} [get]
func (h *AssetHandler) GetQuote(c *gin.Context) {
	quote, err := h.assetService.LookupQuote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
