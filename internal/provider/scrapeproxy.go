package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/pkg/errors"
	"go.uber.org/zap"
)

// ScrapeProxyClient talks to a generic server-side rendering service. It is
// used to reach catalogs that block direct cross-origin or bot traffic.
type ScrapeProxyClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.Logger
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeEnvelope struct {
	Success bool   `json:"success"`
	Body    string `json:"body"`
}

func NewScrapeProxyClient(endpoint, apiKey string, logger *zap.Logger) *ScrapeProxyClient {
	return &ScrapeProxyClient{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.ScrapeProxyTimeout,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
		logger:   logger,
	}
}

// Render submits targetURL to the proxy and returns the rendered page body.
func (c *ScrapeProxyClient) Render(ctx context.Context, targetURL string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{URL: targetURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewScrapeError("scrape proxy request failed", targetURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewScrapeError("failed to read scrape proxy response", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Scrape proxy returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("target_url", targetURL),
		)
		return "", errors.NewScrapeError(
			fmt.Sprintf("scrape proxy status %d", resp.StatusCode), targetURL, nil)
	}

	var envelope scrapeEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", errors.NewScrapeError("malformed scrape proxy envelope", targetURL, err)
	}

	if !envelope.Success || envelope.Body == "" {
		return "", errors.NewScrapeError("scrape proxy envelope carried no body", targetURL, nil)
	}

	return envelope.Body, nil
}
