package machine

import (
	"regexp"
	"strings"

	"github.com/okian/calibra/internal/domain/anchors"
	"github.com/okian/calibra/internal/domain/session"
)

// signalThreshold is the minimum trimmed answer length that counts as a
// usable signal. Shorter answers get exactly one clarifier attempt.
const signalThreshold = 40

// promptQuestions are the five structured interview prompts, in order.
// Index i maps to prompt i+1 and to occurrence source "q<i+1>".
var promptQuestions = [session.PromptCount]string{
	"Describe a recent situation where something you were responsible for broke down. What did you do first?",
	"Tell me about a constraint you had to build around rather than remove. How did you shape the work?",
	"Describe a time an incentive pushed people toward the wrong behavior. When did you notice?",
	"What kind of problem do you keep volunteering for, even when it is not your job?",
	"Describe the last piece of work you were proud of. What made it yours?",
}

// promptContexts maps each prompt to the context type its occurrences carry
// during anchor classification.
var promptContexts = [session.PromptCount]string{
	anchors.ContextBreakdown,
	anchors.ContextConstraintConstruction,
	anchors.ContextIncentiveDistortion,
	anchors.ContextNeutral,
	anchors.ContextNeutral,
}

const clarifierQuestion = "That was brief. Walk through the concrete situation in a few sentences, including what you actually did and what happened after."

var (
	bulletRe       = regexp.MustCompile(`(?m)^\s*[-*\x{2022}]`)
	yearRe         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	titleKeywordRe = regexp.MustCompile(`(?i)\b(engineer|manager|director|lead|analyst|designer|developer|consultant|architect)\b`)
)

// deriveResume builds the resume record with its boolean signals.
func deriveResume(text string) session.Resume {
	trimmed := strings.TrimSpace(text)
	return session.Resume{
		Text:             text,
		HasBullets:       bulletRe.MatchString(text),
		HasDates:         yearRe.MatchString(text),
		HasTitleKeywords: titleKeywordRe.MatchString(text),
		CharLength:       len(trimmed),
	}
}
