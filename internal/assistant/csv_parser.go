package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
	"github.com/berling9700/budget-tracker/internal/reconcile"
)

// isoLayout matches the millisecond UTC timestamps the tracker stores.
const isoLayout = "2006-01-02T15:04:05.000Z"

const csvPrompt = `Parse the following CSV data which represents a list of financial transactions.
The CSV may or may not have headers, and columns for date, description, and amount might be in any order.
Identify the date, a description/name for the transaction, and the amount.
For each transaction, assign it to the most relevant category from the provided list: %[1]s.
- If a transaction fits well into an existing category, use that category name exactly as provided.
- If a transaction represents a common expense type but doesn't fit any existing category (e.g., a new 'Subscription' or 'Pet Supplies' expense), create a logical, new category name for it.
- If you are truly unsure or the transaction is ambiguous, assign it to the category "Other".
Today is %[2]s. Use this for any transactions that lack a specific date.
The amount might be in a credit/debit column; treat all numbers as positive expense amounts.
Output a JSON object containing a list of these expenses.

Category List: %[1]s

CSV Data:
"""
%[3]s
"""`

type parsedExpenses struct {
	Expenses []struct {
		Name         string  `json:"name"`
		Amount       float64 `json:"amount"`
		Date         string  `json:"date"`
		CategoryName string  `json:"categoryName"`
	} `json:"expenses"`
}

// CSVParser turns free-form CSV text into named expense records for the
// importer.
type CSVParser struct {
	gen   Generator
	clock func() time.Time
	log   *zap.SugaredLogger
}

// NewCSVParser creates a CSVParser.
func NewCSVParser(gen Generator, clock func() time.Time) *CSVParser {
	if clock == nil {
		clock = time.Now
	}
	return &CSVParser{gen: gen, clock: clock, log: logger.Named("assistant")}
}

// Parse asks the model to extract expenses from csv, preferring the given
// category names. Amounts are made positive and unreadable dates become
// today. Any model or decoding failure is reported as PARSER_UNAVAILABLE.
func (p *CSVParser) Parse(ctx context.Context, csv string, categoryNames []string) ([]reconcile.IncomingExpense, error) {
	names := strings.Join(categoryNames, ", ")
	now := p.clock().UTC()
	prompt := fmt.Sprintf(csvPrompt, names, now.Format("Mon Jan 02 2006"), csv)

	text, err := p.gen.Generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   expenseSchema(names),
	})
	if err != nil {
		p.log.Errorw("CSV parse request failed", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrParserUnavailable, err)
	}

	var parsed parsedExpenses
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &parsed); err != nil {
		p.log.Errorw("CSV parse response was not valid JSON", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrParserUnavailable, err)
	}

	out := make([]reconcile.IncomingExpense, 0, len(parsed.Expenses))
	for _, e := range parsed.Expenses {
		date := now
		if t, err := models.ParseDate(strings.TrimSpace(e.Date)); err == nil {
			date = t
		}
		out = append(out, reconcile.IncomingExpense{
			Name:         e.Name,
			Amount:       math.Abs(e.Amount),
			Date:         date.UTC().Format(isoLayout),
			CategoryName: e.CategoryName,
		})
	}
	return out, nil
}

func expenseSchema(categoryNames string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"expenses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {
							Type:        genai.TypeString,
							Description: `A brief name for the expense (e.g., "Starbucks", "Online shopping").`,
						},
						"amount": {
							Type:        genai.TypeNumber,
							Description: "The cost of the expense as a positive number.",
						},
						"date": {
							Type:        genai.TypeString,
							Description: "The date of the expense in YYYY-MM-DD format.",
						},
						"categoryName": {
							Type: genai.TypeString,
							Description: fmt.Sprintf(
								`The most appropriate category. This can be one of the existing categories (%s), a new logical category name you identify, or "Other" if it's unclear.`,
								categoryNames),
						},
					},
					Required: []string{"name", "amount", "date", "categoryName"},
				},
			},
		},
		Required: []string{"expenses"},
	}
}
