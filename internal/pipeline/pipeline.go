package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/evidence"
	"github.com/misinfo-detector/backend/internal/metrics"
	"github.com/misinfo-detector/backend/internal/storage/models"
	"github.com/misinfo-detector/backend/internal/verdict"
	"github.com/misinfo-detector/backend/pkg/logger"
	"github.com/misinfo-detector/backend/pkg/textutil"
)

// ErrEmptyInput rejects blank submissions before any processing.
var ErrEmptyInput = errors.New("empty text")

// ErrDependencyUnavailable signals that the linguistic model could not
// run; the request fails rather than degrading.
var ErrDependencyUnavailable = errors.New("segmentation dependency unavailable")

// Result is the public shape of one verified claim. All three evidence
// categories are exposed, matching what is persisted.
type Result struct {
	ID               int64           `json:"id"`
	Claim            string          `json:"claim"`
	Verdict          verdict.Label   `json:"verdict"`
	Confidence       int             `json:"confidence"`
	Explanation      string          `json:"explanation"`
	ReferenceSources []evidence.Item `json:"reference_sources"`
	NewsSources      []evidence.Item `json:"news_sources"`
	FactCheckSources []evidence.Item `json:"factcheck_sources"`
	CreatedAt        time.Time       `json:"created_at"`
}

type Segmenter interface {
	Segment(text string) ([]string, error)
}

type Gatherer interface {
	Gather(ctx context.Context, claim string) evidence.Bundle
}

type Synthesizer interface {
	Synthesize(ctx context.Context, claim string, bundle evidence.Bundle) verdict.Verdict
}

type Store interface {
	InsertVerification(rec *models.VerificationRecord) (int64, error)
}

// Pipeline drives normalize → segment → gather → synthesize → persist
// for one submission.
type Pipeline struct {
	segmenter   Segmenter
	aggregator  Gatherer
	synthesizer Synthesizer
	store       Store
}

func New(segmenter Segmenter, aggregator Gatherer, synthesizer Synthesizer, store Store) *Pipeline {
	return &Pipeline{
		segmenter:   segmenter,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		store:       store,
	}
}

// Process verifies every claim in rawText, in order. Claims are handled
// independently: each gets its own evidence bundle, model call, and
// persisted record. A crash mid-run leaves earlier records committed;
// there is no cross-claim transaction.
func (p *Pipeline) Process(ctx context.Context, rawText string) ([]Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	text := textutil.Normalize(rawText)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	claims, err := p.segmenter.Segment(text)
	if err != nil {
		metrics.CheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	logger.Info("Processing verification request",
		zap.String("run_id", runID),
		zap.Int("claims", len(claims)),
	)

	results := make([]Result, 0, len(claims))
	for _, claim := range claims {
		bundle := p.aggregator.Gather(ctx, claim)
		v := p.synthesizer.Synthesize(ctx, claim, bundle)

		rec := &models.VerificationRecord{
			Text:        claim,
			Verdict:     string(v.Label),
			Confidence:  v.Confidence,
			Explanation: v.Explanation,
			Sources:     bundle,
		}

		id, err := p.store.InsertVerification(rec)
		if err != nil {
			metrics.CheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to persist verification: %w", err)
		}

		metrics.ClaimsProcessed.Inc()
		logger.Info("Claim verified",
			zap.String("run_id", runID),
			zap.Int64("record_id", id),
			zap.String("verdict", string(v.Label)),
			zap.Int("confidence", v.Confidence),
		)

		results = append(results, Result{
			ID:               id,
			Claim:            claim,
			Verdict:          v.Label,
			Confidence:       v.Confidence,
			Explanation:      v.Explanation,
			ReferenceSources: bundle.Reference,
			NewsSources:      bundle.News,
			FactCheckSources: bundle.FactCheck,
			CreatedAt:        rec.CreatedAt,
		})
	}

	metrics.CheckDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	logger.Info("Verification request completed",
		zap.String("run_id", runID),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return results, nil
}

// ResultFromRecord maps a persisted record back onto the public shape.
func ResultFromRecord(rec models.VerificationRecord) Result {
	return Result{
		ID:               rec.ID,
		Claim:            rec.Text,
		Verdict:          verdict.Label(rec.Verdict),
		Confidence:       rec.Confidence,
		Explanation:      rec.Explanation,
		ReferenceSources: rec.Sources.Reference,
		NewsSources:      rec.Sources.News,
		FactCheckSources: rec.Sources.FactCheck,
		CreatedAt:        rec.CreatedAt,
	}
}
