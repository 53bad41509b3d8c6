package evidence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaProvider_MapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Eiffel Tower Berlin", r.URL.Query().Get("srsearch"))
		assert.Equal(t, "5", r.URL.Query().Get("srlimit"))
		w.Write([]byte(`{"query":{"search":[
			{"title":"Eiffel Tower","snippet":"The <span class=\"searchmatch\">Eiffel Tower</span> is a wrought-iron tower"}
		]}}`))
	}))
	defer srv.Close()

	p := NewWikipediaProvider(srv.Client())
	p.baseURL = srv.URL

	items, err := p.Search(context.Background(), "Eiffel Tower Berlin", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Eiffel Tower", items[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Eiffel_Tower", items[0].URL)
	assert.Equal(t, "The Eiffel Tower is a wrought-iron tower", items[0].Snippet)
	assert.Equal(t, "Wikipedia", items[0].Publisher)
}

func TestWikipediaProvider_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewWikipediaProvider(srv.Client())
	p.baseURL = srv.URL

	_, err := p.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestWikipediaProvider_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	p := NewWikipediaProvider(srv.Client())
	p.baseURL = srv.URL

	_, err := p.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestNewsAPIProvider_InertWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewNewsAPIProvider("", srv.Client())
	p.baseURL = srv.URL

	items, err := p.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, called, "inert provider must not make a network call")
}

func TestNewsAPIProvider_MapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))
		w.Write([]byte(`{"articles":[
			{"title":"Tower news","url":"https://news.example/1","description":"A tower story",
			 "publishedAt":"2024-01-02T03:04:05Z","source":{"name":"Example News"}}
		]}`))
	}))
	defer srv.Close()

	p := NewNewsAPIProvider("test-key", srv.Client())
	p.baseURL = srv.URL

	items, err := p.Search(context.Background(), "tower", 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Tower news", items[0].Title)
	assert.Equal(t, "https://news.example/1", items[0].URL)
	assert.Equal(t, "A tower story", items[0].Snippet)
	assert.Equal(t, "Example News", items[0].Publisher)
	assert.Equal(t, "2024-01-02T03:04:05Z", items[0].Date)
}

func TestFactCheckProvider_InertWithoutKey(t *testing.T) {
	p := NewFactCheckProvider("", &http.Client{Timeout: time.Second})

	items, err := p.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFactCheckProvider_MapsFirstReview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"claims":[
			{"text":"The tower is in Berlin",
			 "claimReview":[{"url":"https://factcheck.example/1","reviewDate":"2024-05-06",
			   "title":"Tower claim reviewed","publisher":{"name":"CheckOrg"},"textualRating":"False"}]},
			{"text":"Claim with no review","claimReview":[]}
		]}`))
	}))
	defer srv.Close()

	p := NewFactCheckProvider("test-key", srv.Client())
	p.baseURL = srv.URL

	items, err := p.Search(context.Background(), "tower berlin", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "The tower is in Berlin", items[0].Title)
	assert.Equal(t, "https://factcheck.example/1", items[0].URL)
	assert.Equal(t, "Tower claim reviewed", items[0].Snippet)
	assert.Equal(t, "CheckOrg", items[0].Publisher)
	assert.Equal(t, "2024-05-06", items[0].Date)
	assert.Equal(t, "False", items[0].Rating)
}
