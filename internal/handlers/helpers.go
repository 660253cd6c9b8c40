package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/middleware"
)

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}

// bindJSON decodes the body into req, reporting binding failures as
// INVALID_INPUT.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return false
	}
	return true
}

// requireConfirm rejects destructive requests that lack ?confirm=true.
func requireConfirm(c *gin.Context) bool {
	if c.Query("confirm") != "true" {
		respondWithError(c, apperrors.ErrConfirmationRequired)
		return false
	}
	return true
}

// parseMonth reads the optional month query parameter: 0 for the annual
// view, 1 to 12 for a month.
func parseMonth(c *gin.Context) (int, error) {
	v := c.Query("month")
	if v == "" {
		return 0, nil
	}
	m, err := strconv.Atoi(v)
	if err != nil || m < 0 || m > 12 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 0 and 12")
	}
	return m, nil
}

// parseYear reads the optional year query parameter; 0 means current year.
func parseYear(c *gin.Context) (int, error) {
	v := c.Query("year")
	if v == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1000 || y > 9999 {
		return 0, apperrors.ErrInvalidYear
	}
	return y, nil
}
