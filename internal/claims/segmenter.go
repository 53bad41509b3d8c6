package claims

import (
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/pkg/logger"
)

// Claims must clear all three bars: enough tokens to say something, a
// verb, and a nominal that can act as its subject.
const minClaimTokens = 6

// Segmenter splits normalized text into candidate factual claims. It is
// constructed once at startup and shared; Segment is safe for
// concurrent use.
type Segmenter struct{}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment returns the claim-like sentences of text in original order.
// If no sentence qualifies, the whole input is returned as a single
// claim, so non-empty input never yields zero claims. An error means
// the underlying linguistic model could not process the text at all.
func (s *Segmenter) Segment(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("linguistic model unavailable: %w", err)
	}

	var claims []string
	for _, sent := range doc.Sentences() {
		sentence := strings.TrimSpace(sent.Text)
		if sentence == "" {
			continue
		}

		qualifies, err := s.isClaim(sentence)
		if err != nil {
			return nil, fmt.Errorf("linguistic model unavailable: %w", err)
		}
		if qualifies {
			claims = append(claims, sentence)
		}
	}

	if len(claims) == 0 {
		logger.Debug("No qualifying sentences, treating input as one claim",
			zap.Int("input_length", len(text)),
		)
		return []string{text}, nil
	}

	return claims, nil
}

// isClaim applies the sentence heuristic: at least minClaimTokens
// tokens, at least one verb, at least one nominal token. prose tags
// with the Penn Treebank set, so verbs are VB* and nominals are NN* or
// personal pronouns.
func (s *Segmenter) isClaim(sentence string) (bool, error) {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return false, err
	}

	tokens := doc.Tokens()
	if len(tokens) < minClaimTokens {
		return false, nil
	}

	hasVerb := false
	hasNominal := false
	for _, tok := range tokens {
		if strings.HasPrefix(tok.Tag, "VB") {
			hasVerb = true
		}
		if strings.HasPrefix(tok.Tag, "NN") || tok.Tag == "PRP" {
			hasNominal = true
		}
		if hasVerb && hasNominal {
			return true, nil
		}
	}

	return false, nil
}
