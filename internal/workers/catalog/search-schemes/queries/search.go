package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

type Result struct {
	Hits      []Hit
	TotalHits int64
	MaxScore  float64
	Took      int64 // milliseconds, as reported by Elasticsearch
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []Hit    `json:"hits"`
	} `json:"hits"`
}

// Search runs q against the cluster.
func Search(ctx context.Context, client *elasticsearch.Client, q SchemeQuery) (*Result, error) {
	req, err := BuildRequest(q)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, q.Index)
		}
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &Result{
		Hits:      r.Hits.Hits,
		TotalHits: r.Hits.Total.Value,
		Took:      r.Took,
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	if result.Hits == nil {
		result.Hits = []Hit{}
	}
	return result, nil
}
