package evidence

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/metrics"
	"github.com/misinfo-detector/backend/pkg/logger"
)

// Limits caps how many items each provider category may contribute.
type Limits struct {
	Reference int
	News      int
	FactCheck int
}

func DefaultLimits() Limits {
	return Limits{Reference: 5, News: 5, FactCheck: 5}
}

func (l Limits) forCategory(cat Category) int {
	switch cat {
	case CategoryReference:
		return l.Reference
	case CategoryNews:
		return l.News
	case CategoryFactCheck:
		return l.FactCheck
	}
	return 0
}

// Aggregator fans a claim out to every provider and merges the results
// into one bundle. Provider failures never escape: they degrade to an
// empty category list.
type Aggregator struct {
	providers []Provider
	limits    Limits
	timeout   time.Duration
}

func NewAggregator(providers []Provider, limits Limits, timeout time.Duration) *Aggregator {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		providers: providers,
		limits:    limits,
		timeout:   timeout,
	}
}

// NewDefaultAggregator wires the standard three providers. Key-gated
// providers with an empty key stay registered but inert, so the bundle
// shape is stable regardless of configuration.
func NewDefaultAggregator(newsAPIKey, factCheckAPIKey string, limits Limits, timeout time.Duration) *Aggregator {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	providers := []Provider{
		NewWikipediaProvider(httpClient),
		NewNewsAPIProvider(newsAPIKey, httpClient),
		NewFactCheckProvider(factCheckAPIKey, httpClient),
	}

	return NewAggregator(providers, limits, timeout)
}

// Gather queries all providers concurrently and returns once every one
// has settled. The returned bundle always carries all three categories
// as non-nil slices.
func (a *Aggregator) Gather(ctx context.Context, claim string) Bundle {
	bundle := Bundle{
		Reference: []Item{},
		News:      []Item{},
		FactCheck: []Item{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range a.providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			items, err := p.Search(callCtx, claim, a.limits.forCategory(p.Category()))
			if err != nil {
				metrics.ProviderErrors.WithLabelValues(string(p.Category())).Inc()
				logger.Warn("Evidence provider failed",
					zap.String("category", string(p.Category())),
					zap.Error(err),
				)
				return
			}
			if items == nil {
				items = []Item{}
			}

			mu.Lock()
			defer mu.Unlock()
			switch p.Category() {
			case CategoryReference:
				bundle.Reference = items
			case CategoryNews:
				bundle.News = items
			case CategoryFactCheck:
				bundle.FactCheck = items
			}
		}(p)
	}

	wg.Wait()

	logger.Debug("Evidence gathered",
		zap.Int("reference", len(bundle.Reference)),
		zap.Int("news", len(bundle.News)),
		zap.Int("factcheck", len(bundle.FactCheck)),
	)

	return bundle
}
