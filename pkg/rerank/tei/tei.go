// Package tei provides a rerank.Scorer backed by a Text Embeddings Inference
// server running a cross-encoder model.
package tei

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/artomo/pkg/rerank"
)

const (
	// DefaultBaseURL is the default TEI reranker address.
	DefaultBaseURL = "http://localhost:8081"
)

// Scorer calls the TEI /rerank endpoint.
type Scorer struct {
	baseURL    string
	httpClient *http.Client
}

type rerankRequest struct {
	Query    string   `json:"query"`
	Texts    []string `json:"texts"`
	Truncate bool     `json:"truncate"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// NewScorer creates a TEI reranker client.
func NewScorer(baseURL string) *Scorer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scorer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Score groups pairs by query and issues one /rerank request per distinct
// query.
func (s *Scorer) Score(ctx context.Context, pairs []rerank.Pair) ([]float32, error) {
	scores := make([]float32, len(pairs))
	if len(pairs) == 0 {
		return scores, nil
	}

	var order []string
	groups := map[string][]int{}
	for i, p := range pairs {
		if _, ok := groups[p.Query]; !ok {
			order = append(order, p.Query)
		}
		groups[p.Query] = append(groups[p.Query], i)
	}

	for _, query := range order {
		idx := groups[query]
		texts := make([]string, len(idx))
		for j, i := range idx {
			texts[j] = pairs[i].Text
		}

		results, err := s.rerank(ctx, query, texts)
		if err != nil {
			return nil, err
		}
		if len(results) != len(texts) {
			return nil, fmt.Errorf("%w: expected %d, got %d", rerank.ErrScoreCount, len(texts), len(results))
		}
		for _, r := range results {
			if r.Index < 0 || r.Index >= len(idx) {
				return nil, fmt.Errorf("reranker returned out of range index %d", r.Index)
			}
			scores[idx[r.Index]] = r.Score
		}
	}

	return scores, nil
}

func (s *Scorer) rerank(ctx context.Context, query string, texts []string) ([]rerankResult, error) {
	body, err := json.Marshal(rerankRequest{Query: query, Texts: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending rerank request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, errors.New("rerank failed: status " + resp.Status + ": " + string(b))
	}

	var results []rerankResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding rerank response: %w", err)
	}
	return results, nil
}

var _ rerank.Scorer = (*Scorer)(nil)
