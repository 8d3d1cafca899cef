package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex  = errors.New("index name is required")
	ErrIndexNotFound = errors.New("index not found")
	ErrUnreachable   = errors.New("cluster unreachable")
)

// SchemeQuery describes one search against the scheme index.
type SchemeQuery struct {
	Index    string
	Text     string
	Category string
	State    string
	From     int
	Size     int
}

var searchFields = []string{"name^3", "benefits^2", "eligibilityCriteria"}

// BuildBody returns the bool query for q. Without text every document matches
// and only the filters apply.
func BuildBody(q SchemeQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if text := strings.TrimSpace(q.Text); text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     text,
				"fields":    searchFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if category := strings.TrimSpace(q.Category); category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}
	if state := strings.TrimSpace(q.State); state != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"state": state},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"base_subsidy_amount": map[string]interface{}{"order": "desc", "unmapped_type": "long"}},
		},
	}
}

// BuildRequest wraps the query body in a search request.
func BuildRequest(q SchemeQuery) (*esapi.SearchRequest, error) {
	if strings.TrimSpace(q.Index) == "" {
		return nil, ErrMissingIndex
	}

	body, err := json.Marshal(BuildBody(q))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	from, size := q.From, q.Size
	return &esapi.SearchRequest{
		Index:          []string{q.Index},
		Body:           bytes.NewReader(body),
		From:           &from,
		Size:           &size,
		TrackTotalHits: true,
	}, nil
}
