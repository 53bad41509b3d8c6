package evidence

import "context"

// Category identifies one evidence provider family.
type Category string

const (
	CategoryReference Category = "reference"
	CategoryNews      Category = "news"
	CategoryFactCheck Category = "factcheck"
)

// Item is one external reference supporting or refuting a claim. Every
// field is optional; providers populate inconsistent subsets.
type Item struct {
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Date      string `json:"date,omitempty"`
	Rating    string `json:"rating,omitempty"`
}

// Bundle collects the evidence found for one claim, partitioned by
// provider category. All three slices are always non-nil; a failed or
// skipped provider contributes an empty list.
type Bundle struct {
	Reference []Item `json:"reference_sources"`
	News      []Item `json:"news_sources"`
	FactCheck []Item `json:"factcheck_sources"`
}

// Pooled returns the bundle's items flattened in reference, news,
// factcheck order.
func (b Bundle) Pooled() []Item {
	pooled := make([]Item, 0, len(b.Reference)+len(b.News)+len(b.FactCheck))
	pooled = append(pooled, b.Reference...)
	pooled = append(pooled, b.News...)
	pooled = append(pooled, b.FactCheck...)
	return pooled
}

// Provider is a single external evidence source.
type Provider interface {
	Category() Category
	// Search returns up to limit items for the query. Implementations
	// return an error for transport, status, or decode failures; the
	// aggregator absorbs it.
	Search(ctx context.Context, query string, limit int) ([]Item, error)
}
