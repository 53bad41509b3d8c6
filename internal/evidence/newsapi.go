package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultNewsAPIURL = "https://newsapi.org/v2/everything"

// NewsAPIProvider searches newsapi.org. Without an API key it is inert:
// Search returns an empty list and makes no network call.
type NewsAPIProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewNewsAPIProvider(apiKey string, httpClient *http.Client) *NewsAPIProvider {
	return &NewsAPIProvider{
		baseURL:    defaultNewsAPIURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (p *NewsAPIProvider) Category() Category {
	return CategoryNews
}

func (p *NewsAPIProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if p.apiKey == "" {
		return []Item{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", fmt.Sprintf("%d", limit))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("apiKey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search newsapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi search returned status %d", resp.StatusCode)
	}

	var searchResp struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse newsapi response: %w", err)
	}

	results := make([]Item, 0, len(searchResp.Articles))
	for _, a := range searchResp.Articles {
		results = append(results, Item{
			Title:     a.Title,
			URL:       a.URL,
			Snippet:   a.Description,
			Publisher: a.Source.Name,
			Date:      a.PublishedAt,
		})
	}

	return results, nil
}
