package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"finmind/internal/domain/advisor"
)

// requestTimeout caps one advice call so a slow upstream cannot hold an
// insights request open indefinitely.
const requestTimeout = 20 * time.Second

// Client generates financial advice through any OpenAI-compatible chat
// completion API. It implements advisor.Generator.
type Client struct {
	model  string
	client *openai.Client
}

// NewClient creates an advice client. baseURL may be empty to use the
// default OpenAI endpoint; any OpenAI-compatible server works.
func NewClient(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Generate asks the model for a short advisory grounded in the computed
// metrics and findings. lang selects the response language.
func (c *Client) Generate(ctx context.Context, snapshot *advisor.Snapshot, findings []advisor.Finding, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(lang)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(snapshot, findings)},
		},
		Temperature: 0.4,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(lang string) string {
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf(
		"You are a personal finance advisor. Given a user's financial metrics "+
			"and automated rule findings, write a short, concrete advisory of at "+
			"most three paragraphs. Be specific about amounts and ratios. Do not "+
			"repeat the raw numbers back as a list. Respond in the language with "+
			"ISO code %q.", lang)
}

func userPrompt(s *advisor.Snapshot, findings []advisor.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Metrics:\n")
	fmt.Fprintf(&b, "- assets: %s, liabilities: %s, net worth: %s\n", s.AssetTotal, s.LiabilityTotal, s.NetWorth)
	fmt.Fprintf(&b, "- income: %s, expenses: %s, savings: %s\n", s.TotalIncome, s.TotalExpense, s.SavingsAmount)
	if s.DebtToAssetRatio != nil {
		fmt.Fprintf(&b, "- debt-to-asset ratio: %s\n", s.DebtToAssetRatio.Round(3))
	}
	if s.SavingsRate != nil {
		fmt.Fprintf(&b, "- savings rate: %s\n", s.SavingsRate.Round(3))
	}
	fmt.Fprintf(&b, "- monthly burn: %s\n", s.MonthlyBurn.Round(2))

	if len(s.ExpenseByCategory) > 0 {
		categories := make([]string, 0, len(s.ExpenseByCategory))
		for name := range s.ExpenseByCategory {
			categories = append(categories, name)
		}
		sort.Strings(categories)

		fmt.Fprintf(&b, "Spending by category:\n")
		for _, name := range categories {
			fmt.Fprintf(&b, "- %s: %s\n", name, s.ExpenseByCategory[name])
		}
	}

	if len(findings) > 0 {
		fmt.Fprintf(&b, "Findings:\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", f.Severity, f.Title, f.Message)
		}
	} else {
		fmt.Fprintf(&b, "Findings: none, finances look healthy.\n")
	}

	return b.String()
}
