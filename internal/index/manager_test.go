package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"doctutor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// letterFrequencyEmbedder embeds text as its lowercase letter-frequency
// vector. Deterministic, and a verbatim copy of a passage embeds to the
// identical vector.
type letterFrequencyEmbedder struct{}

func (letterFrequencyEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
		if r >= 'A' && r <= 'Z' {
			vec[r-'A']++
		}
	}
	return vec, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), letterFrequencyEmbedder{}, NewChunker(1, 0))
	require.NoError(t, err)
	return m
}

func TestBuildAndSearchRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	text := "The quick brown fox jumps over the lazy dog. Penguins live in Antarctica. Volcanoes erupt molten lava."
	require.NoError(t, m.Build(ctx, "doc1", text))

	sources, err := m.Search(ctx, "doc1", "Penguins live in Antarctica.", 3)
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	assert.Equal(t, "Penguins live in Antarctica.", sources[0].Text)
	assert.InDelta(t, 1.0, sources[0].Score, 1e-9)
	for _, s := range sources {
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, 1.0+1e-9)
	}
}

func TestSearchUnrelatedQuestionStillReturnsSources(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Build(ctx, "doc1", "Alpha beta. Gamma delta. Epsilon zeta. Eta theta."))

	sources, err := m.Search(ctx, "doc1", "zzzzqqqq", 3)
	require.NoError(t, err)
	assert.Len(t, sources, 3)
}

func TestSearchTopKCapped(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Build(ctx, "doc1", "Only one sentence here."))

	sources, err := m.Search(ctx, "doc1", "anything", 5)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestLoadFromDiskAfterRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m1, err := NewManager(dir, letterFrequencyEmbedder{}, NewChunker(1, 0))
	require.NoError(t, err)
	require.NoError(t, m1.Build(ctx, "doc1", "Persisted passage about glaciers."))

	// A fresh manager has an empty cache and must deserialize from disk.
	m2, err := NewManager(dir, letterFrequencyEmbedder{}, NewChunker(1, 0))
	require.NoError(t, err)

	idx, err := m2.Load("doc1")
	require.NoError(t, err)
	assert.Equal(t, "doc1", idx.DocumentID)
	require.Len(t, idx.Passages, 1)
	assert.Equal(t, "Persisted passage about glaciers.", idx.Passages[0].Text)
}

func TestLoadMissingIndexIsNotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Load("nope")
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestDeleteRemovesIndexAndLedgerEntry(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m, err := NewManager(dir, letterFrequencyEmbedder{}, NewChunker(1, 0))
	require.NoError(t, err)
	require.NoError(t, m.Build(ctx, "doc1", "Some indexed content here."))

	require.NoError(t, m.Delete("doc1"))

	_, err = m.Search(ctx, "doc1", "anything", 3)
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))

	_, statErr := os.Stat(filepath.Join(dir, "indices", "doc1"))
	assert.True(t, os.IsNotExist(statErr))

	ids, err := m.ListIndexed()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteIsIdempotent(t *testing.T) {
	m := newTestManager(t)

	assert.NoError(t, m.Delete("never-existed"))
	assert.NoError(t, m.Delete("never-existed"))
}

func TestBuildEmbeddingFailureIsExternalServiceError(t *testing.T) {
	m, err := NewManager(t.TempDir(), failingEmbedder{}, NewChunker(1, 0))
	require.NoError(t, err)

	err = m.Build(context.Background(), "doc1", "Some content.")
	assert.True(t, domain.IsCode(err, domain.ErrExternalService))
}

func TestBuildEmptyTextFailsValidation(t *testing.T) {
	m := newTestManager(t)

	err := m.Build(context.Background(), "doc1", "   ")
	assert.True(t, domain.IsCode(err, domain.ErrValidation))
}

func TestListIndexedReturnsLedgerIDs(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Build(ctx, "doc-b", "Content for b."))
	require.NoError(t, m.Build(ctx, "doc-a", "Content for a."))

	ids, err := m.ListIndexed()
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b"}, ids)
}
