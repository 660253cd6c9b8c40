package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berling9700/budget-tracker/internal/assistant"
	"github.com/berling9700/budget-tracker/internal/backup"
	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/services"
)

// maxImportSize bounds an uploaded backup file.
const maxImportSize = 10 << 20

// DataHandler handles the whole-state endpoints and the advisor.
type DataHandler struct {
	dataService    services.DataServicer
	advisorService services.AdvisorServicer
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService services.DataServicer, advisorService services.AdvisorServicer) *DataHandler {
	return &DataHandler{dataService: dataService, advisorService: advisorService}
}

// SettingsRequest represents the settings form.
type SettingsRequest struct {
	Currency           string `json:"currency" binding:"omitempty,currency"`
	AlphaVantageAPIKey string `json:"alphaVantageApiKey"`
}

// AdviceRequest is a question for the AI assistant. History holds earlier
// turns of the conversation, which the client keeps.
type AdviceRequest struct {
	Query   string                  `json:"query" binding:"required"`
	Page    string                  `json:"page"`
	History []assistant.ChatMessage `json:"history" binding:"dive"`
}

// GetState returns the full snapshot.
// @Summary     Get the full state
// @Description Return every budget, asset, liability and the net-worth history with the settings
// @Tags        data
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.StateResponse "Current state"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /state [get]
func (h *DataHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.dataService.State())
}

// @Summary     Get settings
// @Description Return the display currency and the quote API key
// @Tags        data
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]models.Settings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [get]
func (h *DataHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.dataService.Settings()})
}

// @Summary     Update settings
// @Description Save the display currency and the quote API key
// @Tags        data
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body SettingsRequest true "Settings"
// @Success     200 {object} map[string]models.Settings "Saved settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings [put]
func (h *DataHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.dataService.UpdateSettings(models.Settings(req))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// Export downloads the backup file.
// @Summary     Export a backup
// @Description Download every budget, asset and liability as a JSON backup file
// @Tags        data
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {file} file "Backup file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /export [get]
func (h *DataHandler) Export(c *gin.Context) {
	data, err := h.dataService.Export()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+backup.FileName+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces all data with an uploaded backup file. The body is the
// file itself. Requires confirm.
// @Summary     Import a backup
// @Description Replace all data with an uploaded backup file
// @Tags        data
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       confirm query boolean true "Must be true to confirm the deletion"
// @Param       request body object true "Backup file contents"
// @Success     200 {object} map[string]models.AppState "Imported state"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     428 {object} ErrorResponse "Confirmation required"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /import [post]
func (h *DataHandler) Import(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Could not read import file"))
		return
	}
	state, err := h.dataService.Import(data)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Advise answers a finance question about the current data.
// @Summary     Ask the assistant
// @Description Answer a finance question about the current data
// @Tags        assistant
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body AdviceRequest true "Question and earlier turns"
// @Success     200 {object} map[string]string "Answer"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Upstream failure"
// @Failure     503 {object} ErrorResponse "Not configured"
// @Router      /advice [post]
func (h *DataHandler) Advise(c *gin.Context) {
	var req AdviceRequest
	if !bindJSON(c, &req) {
		return
	}
	answer, err := h.advisorService.Advise(c.Request.Context(), req.Query, assistant.Page(req.Page), req.History)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
