package repository

import (
	"os"
	"path/filepath"
	"testing"

	"doctutor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentStore(t *testing.T) *DocumentStore {
	t.Helper()
	base := t.TempDir()
	store, err := NewDocumentStore(filepath.Join(base, "uploads"), filepath.Join(base, "outputs"))
	require.NoError(t, err)
	return store
}

func TestPersistAndGetRoundTrip(t *testing.T) {
	store := newTestDocumentStore(t)

	content := "Section 1: Right to Equality"
	doc, err := store.Persist("doc1", content)
	require.NoError(t, err)
	assert.Equal(t, len(content), doc.ContentLength())

	got, err := store.Get("doc1")
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, "doc1", got.ID)
	assert.False(t, got.ExtractedAt.IsZero())
}

func TestGetMissingDocumentIsNotFound(t *testing.T) {
	store := newTestDocumentStore(t)

	_, err := store.Get("missing")
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))
}

func TestSaveUploadAssignsUniqueIDs(t *testing.T) {
	store := newTestDocumentStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, rawPath, err := store.SaveUpload([]byte("payload"), "notes.txt")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate document id %s", id)
		seen[id] = true

		data, err := os.ReadFile(rawPath)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	}
}

func TestListReturnsMetadataOnly(t *testing.T) {
	store := newTestDocumentStore(t)

	_, err := store.Persist("doc1", "first document content")
	require.NoError(t, err)
	_, err = store.Persist("doc2", "second")
	require.NoError(t, err)

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)

	lengths := map[string]int{}
	for _, meta := range metas {
		lengths[meta.ID] = meta.ContentLength
	}
	assert.Equal(t, len("first document content"), lengths["doc1"])
	assert.Equal(t, len("second"), lengths["doc2"])
}

func TestDeleteRemovesRecordAndRawUpload(t *testing.T) {
	store := newTestDocumentStore(t)

	id, rawPath, err := store.SaveUpload([]byte("raw bytes"), "paper.txt")
	require.NoError(t, err)
	_, err = store.Persist(id, "extracted text")
	require.NoError(t, err)

	deleted, err := store.Delete(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Get(id)
	assert.True(t, domain.IsCode(err, domain.ErrNotFound))

	_, statErr := os.Stat(rawPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteDeletesExactlyTheMappedUpload(t *testing.T) {
	store := newTestDocumentStore(t)

	id1, path1, err := store.SaveUpload([]byte("one"), "a.txt")
	require.NoError(t, err)
	_, path2, err := store.SaveUpload([]byte("two"), "b.txt")
	require.NoError(t, err)

	_, err = store.Persist(id1, "one")
	require.NoError(t, err)

	deleted, err := store.Delete(id1)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, statErr := os.Stat(path1)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path2)
	assert.NoError(t, statErr, "unrelated upload must survive")
}

func TestDeleteIsIdempotentAndReportsAbsence(t *testing.T) {
	store := newTestDocumentStore(t)

	deleted, err := store.Delete("never-existed")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = store.Persist("doc1", "content")
	require.NoError(t, err)

	deleted, err = store.Delete("doc1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete("doc1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
