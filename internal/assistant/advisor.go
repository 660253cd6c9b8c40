package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "github.com/berling9700/budget-tracker/internal/errors"
	"github.com/berling9700/budget-tracker/internal/logger"
	"github.com/berling9700/budget-tracker/internal/models"
)

// Page names the screen the user asks from.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageBudgets   Page = "budgets"
	PageAssets    Page = "assets"
)

const advisorInstruction = `You are a helpful and friendly AI financial assistant. Your goal is to provide insightful recommendations based on the user's financial data. You are NOT a licensed financial advisor, and your advice should be considered for informational purposes only. Always include a disclaimer to this effect at the end of your response. Base your analysis strictly on the data provided. Be encouraging and clear in your recommendations. Use markdown for formatting lists and bolding key points.`

const advicePrompt = "A user is asking for financial advice. Here is their financial data:\n\n" +
	"**Budgets:**\n```json\n%s\n```\n\n" +
	"**Assets:**\n```json\n%s\n```\n\n" +
	"**Liabilities:**\n```json\n%s\n```\n\n" +
	"---\n\n" +
	"**Context:** %s\n\n" +
	"**User's Query:** \"%s\"\n\n" +
	"Please provide a helpful response based on the instructions."

func pageInstruction(p Page) string {
	switch p {
	case PageDashboard:
		return "The user is on the main dashboard. Provide a holistic overview of their financial health. Analyze their net worth (assets vs. liabilities) and their annual budget performance. Suggest 2-3 high-level, actionable steps they could take to improve their financial situation."
	case PageBudgets:
		return "The user is viewing their budget. Analyze their spending habits based on the provided budget data. Identify categories where they are overspending or where there are potential savings. Offer specific, practical tips for reducing expenses in those categories."
	case PageAssets:
		return `The user is on the assets page. Review their list of assets. Based on their holdings and asset types, suggest potential areas for diversification or growth. IMPORTANT: Do not give specific stock picks (e.g., "buy AAPL"). Instead, suggest general strategies (e.g., "Consider diversifying into international ETFs," or "Your cash savings are high, you might consider investing some of it for long-term growth if you have a high risk tolerance.").`
	default:
		return "Provide general financial advice based on the user's query and their overall financial data."
	}
}

// ChatMessage is one earlier turn of the conversation, kept by the caller.
type ChatMessage struct {
	Role string `json:"role" binding:"required,oneof=user model"`
	Text string `json:"text" binding:"required"`
}

// AdviceRequest is a question plus the data it is about.
type AdviceRequest struct {
	Query       string
	Page        Page
	History     []ChatMessage
	Budgets     []models.Budget
	Assets      []models.Asset
	Liabilities []models.Liability
}

// Advisor answers finance questions. It holds no conversation state.
type Advisor struct {
	gen Generator
	log *zap.SugaredLogger
}

// NewAdvisor creates an Advisor.
func NewAdvisor(gen Generator) *Advisor {
	return &Advisor{gen: gen, log: logger.Named("assistant")}
}

// Advice returns the model's markdown answer to req.
func (a *Advisor) Advice(ctx context.Context, req AdviceRequest) (string, error) {
	budgets, err := json.MarshalIndent(orEmpty(req.Budgets), "", "  ")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAdvisorUnavailable, err)
	}
	assets, err := json.MarshalIndent(orEmpty(req.Assets), "", "  ")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAdvisorUnavailable, err)
	}
	liabilities, err := json.MarshalIndent(orEmpty(req.Liabilities), "", "  ")
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAdvisorUnavailable, err)
	}
	prompt := fmt.Sprintf(advicePrompt, budgets, assets, liabilities, pageInstruction(req.Page), req.Query)

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.RoleUser
		if m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(role)))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	text, err := a.gen.Generate(ctx, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	})
	if err != nil {
		a.log.Errorw("Advice request failed", "page", req.Page, "error", err)
		return "", apperrors.Wrap(apperrors.ErrAdvisorUnavailable, err)
	}
	return text, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
