// Package genai adapts the Google GenAI client to the synthesis Generator
// contract. The validator downstream treats the model output as untrusted:
// anything that fails validation lands on the deterministic fallback, so
// this adapter only needs to return text, never to guarantee its shape.
package genai

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"context"

	"google.golang.org/genai"

	"github.com/okian/calibra/internal/domain/synthesis"
)

const defaultModel = "gemini-2.5-pro"

// Generator produces pattern-summary candidates via the Gemini API.
type Generator struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(g *Generator) {
		if m := strings.TrimSpace(model); m != "" {
			g.modelName = m
		}
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGenerator creates a Generator backed by the Gemini API.
func NewGenerator(ctx context.Context, apiKey string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	g := &Generator{
		client:    client,
		modelName: defaultModel,
		timeout:   20 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate implements synthesis.Generator.
func (g *Generator) Generate(ctx context.Context, p synthesis.Prompt) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(buildPrompt(p)), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return out, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// buildPrompt renders the generation instructions. The structural rules
// mirror what the validator enforces so a compliant model usually passes on
// the first attempt.
func buildPrompt(p synthesis.Prompt) string {
	var b strings.Builder
	b.WriteString("Write a behavioral pattern summary of exactly three lines,")
	b.WriteString(" optionally followed by a fourth consequence line of at most seven words.\n")
	b.WriteString("Line 1: what the person starts from, as a contrast (\"You ..., not ...\").\n")
	b.WriteString("Line 2: where the person steps in.\n")
	b.WriteString("Line 3: exactly the form \"You <verb>, <verb>, and <verb>.\" using plain lowercase verbs.\n")
	b.WriteString("Use plain concrete language. No praise adjectives, no marketing jargon,")
	b.WriteString(" no archetype labels such as visionary or guru.\n")

	if len(p.SignalTerms) > 0 {
		b.WriteString("Ground the summary in these recurring terms: ")
		b.WriteString(strings.Join(p.SignalTerms, ", "))
		b.WriteString(".\n")
	}
	if len(p.SkillTerms) > 0 {
		b.WriteString("Demonstrated skills to draw on: ")
		b.WriteString(strings.Join(p.SkillTerms, ", "))
		b.WriteString(".\n")
	}
	if len(p.Avoid) > 0 {
		b.WriteString("A previous draft was rejected. Do not use these terms, and work the listed grounded terms in: ")
		b.WriteString(strings.Join(p.Avoid, ", "))
		b.WriteString(".\n")
	}

	fmt.Fprintf(&b, "The person's six-dimension working profile is %v, values 0 to 2.\n", p.PersonVector)
	return b.String()
}
