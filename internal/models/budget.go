package models

import (
	"fmt"
	"time"
)

// Budget is one year of planned spending split into categories, together
// with the expenses recorded against it.
type Budget struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Year       int        `json:"year"`
	Categories []Category `json:"categories"`
	Expenses   []Expense  `json:"expenses"`
}

// Category is a spending bucket. Budgeted is always the annual amount.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Budgeted float64 `json:"budgeted"`
}

// Expense is a single spend owned by exactly one budget.
type Expense struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // ISO-8601
	CategoryID string  `json:"categoryId"`
}

// Category returns the category with the given id.
func (b *Budget) Category(id string) (Category, bool) {
	for _, c := range b.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// HasCategory reports whether id names a category of the budget.
func (b *Budget) HasCategory(id string) bool {
	_, ok := b.Category(id)
	return ok
}

// Expense returns the expense with the given id.
func (b *Budget) Expense(id string) (Expense, bool) {
	for _, e := range b.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

// Clone returns a deep copy of the budget.
func (b Budget) Clone() Budget {
	b.Categories = append([]Category{}, b.Categories...)
	b.Expenses = append([]Expense{}, b.Expenses...)
	return b
}

// Time parses the expense date.
func (e Expense) Time() (time.Time, error) {
	return ParseDate(e.Date)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are
// taken as UTC, matching how date-only strings are read in a browser.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", s)
}
