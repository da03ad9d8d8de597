package recommendcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/papercomputeco/artomo/api"
	"github.com/papercomputeco/artomo/api/recommend"
)

// RecommendAPI calls POST /v1/recommend on the artomo API.
func RecommendAPI(ctx context.Context, apiTarget string, facets, filters map[string]string) (*recommend.Output, error) {
	query, err := json.Marshal(facets)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	var output recommend.Output
	err = call(ctx, apiTarget, http.MethodPost, "/v1/recommend", api.QueryRequest{
		Query:   query,
		Filters: filters,
	}, &output)
	if err != nil {
		return nil, err
	}
	return &output, nil
}

// ExhibitionReportAPI calls POST /v1/exhibition_reports on the artomo API.
func ExhibitionReportAPI(ctx context.Context, apiTarget, uid string, facets map[string]string, refresh bool) (string, error) {
	query, err := json.Marshal(facets)
	if err != nil {
		return "", fmt.Errorf("encoding query: %w", err)
	}

	var output api.ReportResponse
	err = call(ctx, apiTarget, http.MethodPost, "/v1/exhibition_reports", api.QueryRequest{
		Query:        query,
		UID:          uid,
		CreateReport: refresh,
	}, &output)
	if err != nil {
		return "", err
	}
	return output.Report, nil
}

// ActiveAPI calls GET /v1/exhibitions/active on the artomo API.
func ActiveAPI(ctx context.Context, apiTarget string) ([]api.AreaGroup, error) {
	var groups []api.AreaGroup
	if err := call(ctx, apiTarget, http.MethodGet, "/v1/exhibitions/active", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func call(ctx context.Context, apiTarget, method, path string, in, out any) error {
	target, err := url.Parse(apiTarget)
	if err != nil {
		return fmt.Errorf("invalid API target URL: %w", err)
	}
	target.Path = path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to artomo API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("request failed (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("request failed (HTTP %d): %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
