// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"idoljournal/internal/models"
	"idoljournal/internal/stats"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom validators on v.
func RegisterOn(v *validator.Validate) {
	// Decimals are validated through their string form; the library skips
	// custom tags on struct-typed fields.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	_ = v.RegisterValidation("month_key", validateMonthKey)
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	_ = v.RegisterValidation("non_negative_amount", validateNonNegativeAmount)
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ExpenseCategory(fl.Field().String()).Valid()
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, _, err := stats.ParseMonthKey(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := stats.ParseDate(fl.Field().String(), time.UTC)
	return err == nil
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func amountOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Zero, false
}

// validatePositiveAmount requires at least one cent once rounded, matching
// what gets stored.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && d.Round(2).IsPositive()
}

func validateNonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && !d.IsNegative()
}
