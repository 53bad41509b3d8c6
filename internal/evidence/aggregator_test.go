package evidence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	category Category
	items    []Item
	err      error
	calls    int
}

func (s *stubProvider) Category() Category { return s.category }

func (s *stubProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestGather_MergesAllCategories(t *testing.T) {
	ref := &stubProvider{category: CategoryReference, items: []Item{{Title: "Wiki article"}}}
	news := &stubProvider{category: CategoryNews, items: []Item{{Title: "News article"}}}
	fc := &stubProvider{category: CategoryFactCheck, items: []Item{{Title: "Fact check", Rating: "False"}}}

	a := NewAggregator([]Provider{ref, news, fc}, DefaultLimits(), time.Second)
	bundle := a.Gather(context.Background(), "some claim")

	require.Len(t, bundle.Reference, 1)
	require.Len(t, bundle.News, 1)
	require.Len(t, bundle.FactCheck, 1)
	assert.Equal(t, "Fact check", bundle.FactCheck[0].Title)
}

func TestGather_ProviderFailureIsIsolated(t *testing.T) {
	ref := &stubProvider{category: CategoryReference, err: errors.New("boom")}
	news := &stubProvider{category: CategoryNews, items: []Item{{Title: "News article"}}}
	fc := &stubProvider{category: CategoryFactCheck, items: []Item{{Title: "Fact check"}}}

	a := NewAggregator([]Provider{ref, news, fc}, DefaultLimits(), time.Second)
	bundle := a.Gather(context.Background(), "some claim")

	assert.Empty(t, bundle.Reference)
	assert.NotNil(t, bundle.Reference)
	require.Len(t, bundle.News, 1)
	require.Len(t, bundle.FactCheck, 1)
}

func TestGather_NilProviderResultBecomesEmptyList(t *testing.T) {
	ref := &stubProvider{category: CategoryReference, items: nil}

	a := NewAggregator([]Provider{ref}, DefaultLimits(), time.Second)
	bundle := a.Gather(context.Background(), "some claim")

	assert.NotNil(t, bundle.Reference)
	assert.Empty(t, bundle.Reference)
	assert.NotNil(t, bundle.News)
	assert.NotNil(t, bundle.FactCheck)
}

func TestGather_StructurallyStableAcrossCalls(t *testing.T) {
	ref := &stubProvider{category: CategoryReference, err: errors.New("down")}
	news := &stubProvider{category: CategoryNews}
	fc := &stubProvider{category: CategoryFactCheck}

	a := NewAggregator([]Provider{ref, news, fc}, DefaultLimits(), time.Second)

	first := a.Gather(context.Background(), "identical claim")
	second := a.Gather(context.Background(), "identical claim")

	assert.NotNil(t, first.Reference)
	assert.NotNil(t, first.News)
	assert.NotNil(t, first.FactCheck)
	assert.NotNil(t, second.Reference)
	assert.NotNil(t, second.News)
	assert.NotNil(t, second.FactCheck)
	assert.Equal(t, 2, ref.calls)
}

func TestBundle_Pooled_Order(t *testing.T) {
	bundle := Bundle{
		Reference: []Item{{Title: "ref"}},
		News:      []Item{{Title: "news"}},
		FactCheck: []Item{{Title: "fc"}},
	}

	pooled := bundle.Pooled()
	require.Len(t, pooled, 3)
	assert.Equal(t, "ref", pooled[0].Title)
	assert.Equal(t, "news", pooled[1].Title)
	assert.Equal(t, "fc", pooled[2].Title)
}
