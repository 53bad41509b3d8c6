package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/evidence"
	"github.com/misinfo-detector/backend/internal/llm"
	"github.com/misinfo-detector/backend/internal/metrics"
	"github.com/misinfo-detector/backend/pkg/logger"
)

// Label is the closed set of verdict outcomes. The model's raw label is
// normalized into this set; anything unrecognized becomes Unverified.
type Label string

const (
	LabelTrue          Label = "TRUE"
	LabelFalse         Label = "FALSE"
	LabelPartiallyTrue Label = "PARTIALLY_TRUE"
	LabelUnverified    Label = "UNVERIFIED"
)

const (
	maxExplanationChars = 3000
	maxPromptSources    = 10
	defaultConfidence   = 50
	degradedConfidence  = 40
)

// Verdict is the synthesized judgment for one claim.
type Verdict struct {
	Label       Label  `json:"verdict"`
	Confidence  int    `json:"confidence"`
	Explanation string `json:"explanation"`
}

// Completer is the single-turn completion dependency.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// Synthesizer turns a claim and its evidence into a verdict via an LLM
// call with defensive parsing of the response.
type Synthesizer struct {
	completer Completer
}

func NewSynthesizer(completer Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

var braceObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Synthesize never fails: a model-call error degrades to an UNVERIFIED
// verdict carrying the cause, and malformed output falls through the
// three-tier parser.
func (s *Synthesizer) Synthesize(ctx context.Context, claim string, bundle evidence.Bundle) Verdict {
	prompt := buildPrompt(claim, bundle)

	resp, err := s.completer.Complete(ctx, llm.CompletionRequest{
		UserPrompt: prompt,
	})
	if err != nil {
		logger.Warn("LLM verification failed", zap.Error(err))
		v := Verdict{
			Label:       LabelUnverified,
			Confidence:  degradedConfidence,
			Explanation: truncate(fmt.Sprintf("LLM error: %v", err), maxExplanationChars),
		}
		metrics.VerdictsTotal.WithLabelValues(string(v.Label)).Inc()
		return v
	}

	v := parseResponse(strings.TrimSpace(resp.Content))
	metrics.VerdictsTotal.WithLabelValues(string(v.Label)).Inc()
	return v
}

func buildPrompt(claim string, bundle evidence.Bundle) string {
	return fmt.Sprintf(`You are a fact-check assistant. Given a claim and supporting sources, decide whether the claim is TRUE, FALSE, PARTIALLY TRUE, or UNVERIFIED.
Return a JSON object with exactly these keys:
- verdict (one of TRUE/FALSE/PARTIALLY TRUE/UNVERIFIED)
- confidence (0-100 integer)
- explanation (one short paragraph).

Claim:
"""%s"""

Sources:
%s

Respond with JSON only.`, claim, buildSourcesText(bundle))
}

// buildSourcesText renders the first maxPromptSources items, pooled
// across categories, as a bulleted list.
func buildSourcesText(bundle evidence.Bundle) string {
	pooled := bundle.Pooled()
	if len(pooled) == 0 {
		return "No sources found."
	}
	if len(pooled) > maxPromptSources {
		pooled = pooled[:maxPromptSources]
	}

	lines := make([]string, 0, len(pooled))
	for _, src := range pooled {
		title := src.Title
		if title == "" {
			title = "No Title"
		}
		srcURL := src.URL
		if srcURL == "" {
			srcURL = "No URL"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", title, srcURL, src.Snippet))
	}

	return strings.Join(lines, "\n")
}

// parseResponse applies the three-tier fallback: strict JSON, then the
// first brace-delimited object in the body, then a fixed UNVERIFIED
// verdict wrapping the raw body.
func parseResponse(content string) Verdict {
	var raw map[string]interface{}

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		match := braceObjectRe.FindString(content)
		if match == "" || json.Unmarshal([]byte(match), &raw) != nil {
			return Verdict{
				Label:       LabelUnverified,
				Confidence:  defaultConfidence,
				Explanation: truncate(content, maxExplanationChars),
			}
		}
	}

	return Verdict{
		Label:       normalizeLabel(raw["verdict"]),
		Confidence:  coerceConfidence(raw["confidence"]),
		Explanation: truncate(coerceString(raw["explanation"]), maxExplanationChars),
	}
}

func normalizeLabel(v interface{}) Label {
	s := strings.ToUpper(strings.TrimSpace(coerceString(v)))

	switch s {
	case "TRUE":
		return LabelTrue
	case "FALSE":
		return LabelFalse
	case "PARTIALLY_TRUE", "PARTIALLY TRUE", "PARTLY TRUE":
		return LabelPartiallyTrue
	case "UNVERIFIED":
		return LabelUnverified
	}

	if s != "" {
		logger.Debug("Unrecognized verdict label from model", zap.String("label", s))
	}
	return LabelUnverified
}

// coerceConfidence accepts a number or numeric string; anything else
// defaults rather than propagating a type failure. The result is
// clamped to [0,100].
func coerceConfidence(v interface{}) int {
	confidence := defaultConfidence

	switch n := v.(type) {
	case float64:
		confidence = int(n)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			confidence = int(parsed)
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

func coerceString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

// truncate caps s at limit bytes without splitting a multi-byte rune:
// the cut backs up to the nearest rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
