package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misinfo-detector/backend/internal/evidence"
	"github.com/misinfo-detector/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.InitSchema())
	return c
}

func sampleRecord(text string) *models.VerificationRecord {
	return &models.VerificationRecord{
		Text:        text,
		Verdict:     "FALSE",
		Confidence:  90,
		Explanation: "The Eiffel Tower is in Paris, not Berlin.",
		Sources: evidence.Bundle{
			Reference: []evidence.Item{{Title: "Eiffel Tower", URL: "https://en.wikipedia.org/wiki/Eiffel_Tower"}},
			News:      []evidence.Item{},
			FactCheck: []evidence.Item{{Title: "Tower claim", Rating: "False"}},
		},
	}
}

func TestInsertAndFetch(t *testing.T) {
	c := newTestClient(t)

	rec := sampleRecord("The Eiffel Tower is located in Berlin.")
	id, err := c.InsertVerification(rec)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := c.GetVerification(id)
	require.NoError(t, err)

	assert.Equal(t, rec.Text, got.Text)
	assert.Equal(t, "FALSE", got.Verdict)
	assert.Equal(t, 90, got.Confidence)
	assert.Equal(t, rec.Explanation, got.Explanation)
	require.Len(t, got.Sources.Reference, 1)
	assert.Equal(t, "Eiffel Tower", got.Sources.Reference[0].Title)
	require.Len(t, got.Sources.FactCheck, 1)
	assert.Equal(t, "False", got.Sources.FactCheck[0].Rating)
	assert.NotNil(t, got.Sources.News)
}

func TestGetVerification_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetVerification(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenFetch(t *testing.T) {
	c := newTestClient(t)

	id, err := c.InsertVerification(sampleRecord("Some claim to delete entirely."))
	require.NoError(t, err)

	deleted, err := c.DeleteVerification(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = c.GetVerification(id)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err = c.DeleteVerification(id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGetHistory_OrderAndLimit(t *testing.T) {
	c := newTestClient(t)

	for i := 0; i < 5; i++ {
		_, err := c.InsertVerification(sampleRecord("claim"))
		require.NoError(t, err)
	}

	records, err := c.GetHistory(3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Most recent first; IDs break the tie within one second.
	assert.Greater(t, records[0].ID, records[1].ID)
	assert.Greater(t, records[1].ID, records[2].ID)
}

func TestGetHistory_LimitClamping(t *testing.T) {
	c := newTestClient(t)

	_, err := c.InsertVerification(sampleRecord("claim"))
	require.NoError(t, err)

	for _, limit := range []int{0, -10, 100000} {
		records, err := c.GetHistory(limit)
		require.NoError(t, err, "limit %d", limit)
		assert.Len(t, records, 1, "limit %d", limit)
	}
}

func TestGetHistory_EmptyDatabase(t *testing.T) {
	c := newTestClient(t)

	records, err := c.GetHistory(50)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}
