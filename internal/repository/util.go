package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"
)

const (
	searchAttempts = 3
	defaultSize    = 100
	maxSize        = 1000
)

func search(ctx context.Context, searchService *elastic.SearchService) (*elastic.SearchResult, error) {
	var result *elastic.SearchResult
	var err error

	for attempt := 1; attempt <= searchAttempts; attempt++ {
		result, err = searchService.Do(ctx)
		if !elastic.IsStatusCode(err, 429) {
			return result, err
		}

		zap.L().With(zap.Int("attempt", attempt)).Warn("Elastic: 429 (Too Many Requests)")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	return result, err
}

func decodeHits[T any](results *elastic.SearchResult) ([]T, error) {
	items := make([]T, 0, len(results.Hits.Hits))
	for _, hit := range results.Hits.Hits {
		var item T
		if err := json.Unmarshal(hit.Source, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func pageSize(size int) int {
	if size <= 0 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}

	return size
}
