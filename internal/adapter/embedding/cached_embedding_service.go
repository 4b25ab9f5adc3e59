package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"doctutor/internal/cache"
	"doctutor/internal/domain"
	"doctutor/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedEmbeddingService wraps another EmbeddingService with a cache layer.
// Passage embedding dominates index build cost, so identical texts resolve
// from the cache; concurrent misses for the same text are collapsed with
// singleflight so the external service is called once.
type CachedEmbeddingService struct {
	inner    domain.EmbeddingService
	cache    domain.Cache
	provider string
	ttl      time.Duration
	sfGroup  singleflight.Group
}

// NewCachedEmbeddingService decorates inner with caching. provider
// distinguishes key namespaces between embedding backends.
func NewCachedEmbeddingService(inner domain.EmbeddingService, c domain.Cache, provider string, ttl time.Duration) (*CachedEmbeddingService, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner embedding service cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache instance cannot be nil")
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour // 7 days
	}
	return &CachedEmbeddingService{
		inner:    inner,
		cache:    c,
		provider: provider,
		ttl:      ttl,
	}, nil
}

// Generate returns the cached embedding when present, otherwise computes it
// via the inner service and caches the result gob-encoded.
func (s *CachedEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	cacheKey := cache.GenerateCacheKey("embedding", s.provider, hashString(text))

	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var embedding []float32
		decoder := gob.NewDecoder(bytes.NewReader([]byte(cached)))
		if decodeErr := decoder.Decode(&embedding); decodeErr == nil {
			return embedding, nil
		}
		logger.Get().Warn("Failed to decode cached embedding, recomputing",
			zap.String("cache_key", cacheKey))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("Embedding cache read failed, falling through",
			zap.String("cache_key", cacheKey), zap.Error(err))
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		embedding, fetchErr := s.inner.Generate(ctx, text)
		if fetchErr != nil {
			return nil, fetchErr
		}

		var buffer bytes.Buffer
		if encodeErr := gob.NewEncoder(&buffer).Encode(embedding); encodeErr != nil {
			logger.Get().Warn("Failed to encode embedding for caching",
				zap.String("cache_key", cacheKey), zap.Error(encodeErr))
			return embedding, nil
		}
		if setErr := s.cache.Set(ctx, cacheKey, buffer.String(), s.ttl); setErr != nil {
			logger.Get().Warn("Failed to cache embedding",
				zap.String("cache_key", cacheKey), zap.Error(setErr))
		}
		return embedding, nil
	})
	if err != nil {
		return nil, err
	}

	embedding, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
	}
	return embedding, nil
}

var _ domain.EmbeddingService = (*CachedEmbeddingService)(nil)
