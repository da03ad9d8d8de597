// Package tei implements pkg/embeddings' Embedder against a Hugging Face
// text-embeddings-inference server.
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

	"github.com/papercomputeco/artomo/pkg/embeddings"
)

// DefaultBaseURL is where a local text-embeddings-inference container listens.
const DefaultBaseURL = "http://localhost:8082"

// Config holds TEI embedder settings. When Dimensions or MaxInputLength are
// zero they are read from the server's /info endpoint on construction.
type Config struct {
	BaseURL        string
	Model          string
	Dimensions     int
	MaxInputLength int
}

// Embedder calls POST /embed.
type Embedder struct {
	baseURL    string
	info       embeddings.ModelInfo
	httpClient *http.Client
}

type embedRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

type infoResponse struct {
	ModelID            string `json:"model_id"`
	MaxInputLength     int    `json:"max_input_length"`
	MaxClientBatchSize int    `json:"max_client_batch_size"`
}

// NewEmbedder creates a TEI embedder.
func NewEmbedder(ctx context.Context, cfg Config) (*Embedder, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	e := &Embedder{
		baseURL: baseURL,
		info: embeddings.ModelInfo{
			ModelID:        cfg.Model,
			Dimensions:     cfg.Dimensions,
			MaxInputLength: cfg.MaxInputLength,
		},
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}

	if e.info.ModelID == "" || e.info.MaxInputLength == 0 {
		info, err := e.fetchInfo(ctx)
		if err != nil {
			return nil, err
		}
		if e.info.ModelID == "" {
			e.info.ModelID = info.ModelID
		}
		if e.info.MaxInputLength == 0 {
			e.info.MaxInputLength = info.MaxInputLength
		}
	}

	if e.info.Dimensions == 0 {
		vec, err := e.Embed(ctx, "dimension probe")
		if err != nil {
			return nil, err
		}
		e.info.Dimensions = len(vec)
	}

	return e, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Inputs longer than the model
// window are truncated by the server.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var vecs [][]float32
	if err := e.post(ctx, "/embed", embedRequest{Inputs: texts, Truncate: true}, &vecs); err != nil {
		return nil, err
	}

	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d for %d inputs", embeddings.ErrEmbeddingCount, len(vecs), len(texts))
	}
	return vecs, nil
}

func (e *Embedder) Info() embeddings.ModelInfo {
	return e.info
}

func (e *Embedder) Close() error {
	return nil
}

func (e *Embedder) fetchInfo(ctx context.Context) (*infoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/info", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating info request: %v", embeddings.ErrEmbedding, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching model info: %v", embeddings.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tei /info returned status %d", embeddings.ErrEmbedding, resp.StatusCode)
	}

	info := &infoResponse{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, fmt.Errorf("%w: decoding model info: %v", embeddings.ErrEmbedding, err)
	}
	return info, nil
}

func (e *Embedder) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshaling request: %v", embeddings.ErrEmbedding, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", embeddings.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", embeddings.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: tei returned status %d: %s", embeddings.ErrEmbedding, resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty response", embeddings.ErrEmbedding)
		}
		return fmt.Errorf("%w: decoding response: %v", embeddings.ErrEmbedding, err)
	}
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
