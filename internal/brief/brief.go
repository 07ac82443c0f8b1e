// Package brief turns a recommendation result into a short analyst
// narrative. It is a presentation layer only: the numbers come from the
// scoring pipeline and the model is instructed not to invent new ones.
package brief

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/exportdesk/advisor-cli/internal/recommend"
	"github.com/exportdesk/advisor-cli/pkg/anthropic"
)

const systemPrompt = `You are a trade analyst writing for an exporter evaluating new markets.
You will receive a ranked market recommendation with per-component score breakdowns and a confidence report.
Write a brief (3-5 paragraphs) that explains the ranking in plain language: why the top markets scored well, what the penalties and warnings mean, and how much to trust the result given the confidence level and data source.
Use only the figures provided. Do not invent data.`

// Params configure brief generation.
type Params struct {
	Model     string
	MaxTokens int
}

// Generator produces analyst briefs from recommendation results.
type Generator struct {
	client anthropic.Client
	params Params
}

// New builds a Generator. Model and MaxTokens must be set by the caller;
// config carries the defaults.
func New(client anthropic.Client, params Params) *Generator {
	return &Generator{client: client, params: params}
}

// Generate renders the result into a prompt and returns the model's brief.
func (g *Generator) Generate(ctx context.Context, res *recommend.Result) (string, error) {
	if res == nil || len(res.Rankings) == 0 {
		return "", eris.New("brief: result has no rankings to summarize")
	}

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.params.Model,
		MaxTokens: int64(g.params.MaxTokens),
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: renderResult(res)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "brief: generate")
	}

	resp.Usage.LogCost(g.params.Model, "brief")

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("brief: model returned no text")
	}
	return text, nil
}

// renderResult flattens the result into the plain-text layout the prompt
// describes. Stable ordering keeps briefs reproducible for a fixed result.
func renderResult(res *recommend.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recommendation for HS category %s exported from %s (data source: %s).\n\n", res.Category, res.Origin, res.Source)

	for _, row := range res.Rankings {
		fmt.Fprintf(&b, "%d. %s (%s) — score %.3f", row.Rank, row.Name, row.Country, row.Score)
		if row.RiskGrade != "" {
			fmt.Fprintf(&b, ", risk grade %s", row.RiskGrade)
		}
		b.WriteString("\n")
		for _, c := range row.Breakdown {
			fmt.Fprintf(&b, "   %s: %+.1f\n", c.Component, c.Points)
		}
		for _, w := range row.Warnings {
			fmt.Fprintf(&b, "   warning: %s\n", w)
		}
	}

	if len(res.Excluded) > 0 {
		b.WriteString("\nExcluded candidates:\n")
		for _, ex := range res.Excluded {
			fmt.Fprintf(&b, "   %s: %s\n", ex.Country, ex.Reason)
		}
	}

	fmt.Fprintf(&b, "\nConfidence: %.2f (%s) — %s\n", res.Confidence.Score, res.Confidence.Level, res.Confidence.Interpretation)
	if res.Confidence.Warning != "" {
		fmt.Fprintf(&b, "Confidence warning: %s\n", res.Confidence.Warning)
	}
	if len(res.Confidence.MissingFields) > 0 {
		fmt.Fprintf(&b, "Missing fields: %s\n", strings.Join(res.Confidence.MissingFields, ", "))
	}

	return b.String()
}
