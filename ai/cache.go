// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cachingEmbedder struct {
	next  Embedder
	model string
	cache *expirable.LRU[string, []float32]
}

// NewCachingEmbedder wraps an embedder with an expiring LRU cache keyed by
// model and text. Identical texts are embedded once per TTL window. Returns
// the embedder unwrapped when size or ttl disable caching.
func NewCachingEmbedder(next Embedder, model string, size int, ttl time.Duration) Embedder {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &cachingEmbedder{
		next:  next,
		model: model,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

func (c *cachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.model, text)
	if cached, ok := c.cache.Get(key); ok {
		return cloneVector(cached), nil
	}
	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneVector(vector))
	return vector, nil
}

func (c *cachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var (
		missTexts   []string
		missIndexes []int
	)
	for i, text := range texts {
		if cached, ok := c.cache.Get(cacheKey(c.model, text)); ok {
			results[i] = cloneVector(cached)
		} else {
			missTexts = append(missTexts, text)
			missIndexes = append(missIndexes, i)
		}
	}
	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := c.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIndexes {
		if j >= len(vectors) {
			break
		}
		results[idx] = vectors[j]
		c.cache.Add(cacheKey(c.model, texts[idx]), cloneVector(vectors[j]))
	}
	return results, nil
}

// cacheKey hashes model and text with BLAKE2b so long paragraphs don't blow
// up the cache's key memory.
func cacheKey(model, text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func cloneVector(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
