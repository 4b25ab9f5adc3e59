package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExternalServiceError("llm", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "llm")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsCodeMatchesThroughWrapping(t *testing.T) {
	inner := NewDocumentNotFoundError("doc1")
	wrapped := fmt.Errorf("loading document: %w", inner)

	assert.True(t, IsCode(wrapped, ErrNotFound))
	assert.False(t, IsCode(wrapped, ErrValidation))
	assert.False(t, IsCode(errors.New("plain"), ErrNotFound))
	assert.False(t, IsCode(nil, ErrNotFound))
}

func TestDomainErrorJSONHidesCause(t *testing.T) {
	err := NewIOError("failed to persist document content", errors.New("disk full"))

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.Contains(t, string(data), "IO_ERROR")
	assert.Contains(t, string(data), "failed to persist document content")
	assert.NotContains(t, string(data), "disk full")
}
