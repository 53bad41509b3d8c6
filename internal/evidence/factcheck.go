package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultFactCheckURL = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// FactCheckProvider searches the Google Fact Check Tools claim
// registry. Without an API key it is inert.
type FactCheckProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewFactCheckProvider(apiKey string, httpClient *http.Client) *FactCheckProvider {
	return &FactCheckProvider{
		baseURL:    defaultFactCheckURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (p *FactCheckProvider) Category() Category {
	return CategoryFactCheck
}

func (p *FactCheckProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if p.apiKey == "" {
		return []Item{}, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", fmt.Sprintf("%d", limit))
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search fact check tools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact check search returned status %d", resp.StatusCode)
	}

	var searchResp struct {
		Claims []struct {
			Text        string `json:"text"`
			ClaimReview []struct {
				URL        string `json:"url"`
				ReviewDate string `json:"reviewDate"`
				Title      string `json:"title"`
				Publisher  struct {
					Name string `json:"name"`
				} `json:"publisher"`
				TextualRating string `json:"textualRating"`
			} `json:"claimReview"`
		} `json:"claims"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse fact check response: %w", err)
	}

	results := make([]Item, 0, len(searchResp.Claims))
	for _, c := range searchResp.Claims {
		if len(c.ClaimReview) == 0 {
			continue
		}
		review := c.ClaimReview[0]

		results = append(results, Item{
			Title:     c.Text,
			URL:       review.URL,
			Snippet:   review.Title,
			Publisher: review.Publisher.Name,
			Date:      review.ReviewDate,
			Rating:    review.TextualRating,
		})
	}

	return results, nil
}
