package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultWikipediaURL = "https://en.wikipedia.org/w/api.php"

// WikipediaProvider searches the MediaWiki API. It needs no credential
// and is always active.
type WikipediaProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewWikipediaProvider(httpClient *http.Client) *WikipediaProvider {
	return &WikipediaProvider{
		baseURL:    defaultWikipediaURL,
		httpClient: httpClient,
	}
}

func (p *WikipediaProvider) Category() Category {
	return CategoryReference
}

func (p *WikipediaProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")
	params.Set("srlimit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search wikipedia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia search returned status %d", resp.StatusCode)
	}

	var searchResp struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse wikipedia response: %w", err)
	}

	results := make([]Item, 0, len(searchResp.Query.Search))
	for _, it := range searchResp.Query.Search {
		// The API has no per-result URL; article URLs follow the title.
		articleURL := "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(it.Title, " ", "_")

		results = append(results, Item{
			Title:     it.Title,
			URL:       articleURL,
			Snippet:   stripMarkup(it.Snippet),
			Publisher: "Wikipedia",
		})
	}

	return results, nil
}

// stripMarkup removes the searchmatch span markup the MediaWiki API
// embeds in snippets.
func stripMarkup(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}
	return strings.TrimSpace(doc.Text())
}
