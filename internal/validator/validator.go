// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/berling9700/budget-tracker/internal/models"
)

// validCurrencies lists the display currencies the settings screen offers.
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CAD": true,
	"AUD": true, "CHF": true, "CNY": true, "INR": true, "MXN": true,
	"BRL": true, "SEK": true, "NOK": true, "DKK": true, "NZD": true,
	"SGD": true, "HKD": true, "ZAR": true, "KRW": true, "PLN": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("asset_type", validateAssetType)
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("view_month", validateViewMonth)
	_ = v.RegisterValidation("currency", validateCurrency)
}

func validateAssetType(fl validator.FieldLevel) bool {
	return models.AssetType(fl.Field().String()).Valid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// view_month accepts 0 (annual) through 12.
func validateViewMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 0 && m <= 12
}

func validateCurrency(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}
