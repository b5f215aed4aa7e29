package genai

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/calibra/internal/domain/synthesis"
)

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for an empty api key")
	}
}

func TestBuildPrompt(t *testing.T) {
	p := synthesis.Prompt{
		PersonVector: [6]int{2, 1, 0, 1, 1, 1},
		SignalTerms:  []string{"debugging", "integration"},
		SkillTerms:   []string{"deployment"},
	}

	got := buildPrompt(p)
	for _, want := range []string{
		"exactly three lines",
		"You <verb>, <verb>, and <verb>.",
		"debugging, integration",
		"deployment",
		"[2 1 0 1 1 1]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "previous draft") {
		t.Error("avoid section should be absent without avoid terms")
	}

	p.Avoid = []string{"visionary"}
	got = buildPrompt(p)
	if !strings.Contains(got, "visionary") {
		t.Error("avoid terms should be threaded into the retry prompt")
	}
}
