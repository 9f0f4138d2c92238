// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// Provider is the interface to an external text-understanding service that
// judges whether a content excerpt is the expected work.
type Provider interface {
	VerifyMatch(ctx context.Context, excerpt string, ref types.Reference) (types.MatchResult, error)
}

// NewProvider is the factory for the AI provider. It is a package-level
// variable so tests can replace it with a mock without touching call sites;
// tests must restore the original value via t.Cleanup.
var NewProvider func(cfg types.MatchConfig) (Provider, error) = newAnthropicProvider

// anthropicProvider implements Provider using the Anthropic SDK.
// anthropic.Client is a value type; the SDK's NewClient returns it by value.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(cfg types.MatchConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("match: no API key configured")
	}
	return &anthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}, nil
}

// matchLine parses "MATCH: 85" style lines out of the model response. The
// response contract is intentionally narrow; anything that does not parse
// triggers the lexical fallback in the caller.
var matchLine = regexp.MustCompile(`MATCH:\s*(\d{1,3})`)

func (p *anthropicProvider) VerifyMatch(ctx context.Context, excerpt string, ref types.Reference) (types.MatchResult, error) {
	prompt := buildPrompt(excerpt, ref)

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 100,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return types.MatchResult{}, fmt.Errorf("match: completion: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return parseResponse(text)
}

// parseResponse validates the model output against the narrow contract:
// a numeric confidence on a MATCH line, with an optional REASON tail.
func parseResponse(text string) (types.MatchResult, error) {
	m := matchLine.FindStringSubmatch(text)
	if m == nil {
		return types.MatchResult{}, fmt.Errorf("match: no MATCH line in model output")
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 100 {
		return types.MatchResult{}, fmt.Errorf("match: confidence %q out of range", m[1])
	}

	confidence := float64(n) / 100
	reason := "model-verified correspondence"
	if i := strings.Index(text, "REASON:"); i >= 0 {
		if r := strings.TrimSpace(strings.SplitN(text[i+len("REASON:"):], "\n", 2)[0]); r != "" {
			reason = r
		}
	}

	return types.MatchResult{
		Matches:     confidence >= 0.7,
		Confidence:  confidence,
		Explanation: reason,
	}, nil
}

func buildPrompt(excerpt string, ref types.Reference) string {
	year := "unknown"
	if ref.Year > 0 {
		year = strconv.Itoa(ref.Year)
	}
	return fmt.Sprintf(`You are verifying if a document's content matches expected metadata.

Expected:
- Author: %s
- Title: %s
- Year: %s

Content (excerpt):
%s

Does this content match the expected work? Consider:
1. Does the author name appear?
2. Does the title or key title words appear?
3. Does the year match (plus or minus one year)?

Respond with ONLY:
MATCH: [0-100 confidence score]
REASON: [one sentence]`, ref.Author, ref.Title, year, excerpt)
}
