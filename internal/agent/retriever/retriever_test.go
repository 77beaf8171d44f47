package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveBestMatchFirst(t *testing.T) {
	r, err := NewKeywordRetriever()
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "How much is the Creator plan?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, passages)
	assert.Contains(t, passages[0], "Plan: Creator")
}

func TestRetrieveRespectsK(t *testing.T) {
	r, err := NewKeywordRetriever()
	require.NoError(t, err)

	// "plan" appears in every plan document.
	passages, err := r.Retrieve(context.Background(), "plan price", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(passages), 2)

	none, err := r.Retrieve(context.Background(), "plan price", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRetrieveNoMatches(t *testing.T) {
	r, err := NewKeywordRetriever()
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "zzzzqqqq", 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestRetrievePoliciesDocument(t *testing.T) {
	r, err := NewKeywordRetriever()
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "Can I get a refund? What are your policies?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, passages)
	assert.Contains(t, passages[0], "Company Policies:")
}
