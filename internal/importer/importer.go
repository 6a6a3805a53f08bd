package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/pkg/errors"
	"go.uber.org/zap"
)

// HostClient hands finished items off to the host application's import
// pipeline. Failures surface as ImportError and are never retried.
type HostClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

type urlImportRequest struct {
	URL string `json:"url"`
}

type importResponse struct {
	Name string `json:"name"`
}

func NewHostClient(baseURL string, logger *zap.Logger) *HostClient {
	return &HostClient{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.ImportTimeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// ImportFromURL asks the host to fetch and import a remote item URL,
// returning the host-assigned display name.
func (c *HostClient) ImportFromURL(ctx context.Context, remoteURL string) (string, error) {
	payload, err := json.Marshal(urlImportRequest{URL: remoteURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/import/url", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doImport(req, remoteURL)
}

// ImportCard uploads resolved card bytes as a multipart file payload,
// returning the host-assigned display name.
func (c *HostClient) ImportCard(ctx context.Context, fileName string, blob []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(blob); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/import/file", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doImport(req, fileName)
}

func (c *HostClient) doImport(req *http.Request, item string) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewImportError("import request failed", item, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewImportError("failed to read import response", item, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Host rejected import",
			zap.Int("status", resp.StatusCode),
			zap.String("item", item),
		)
		return "", errors.NewImportError(
			fmt.Sprintf("host rejected import with status %d", resp.StatusCode), item, nil)
	}

	var parsed importResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.NewImportError("malformed import confirmation", item, err)
	}
	if parsed.Name == "" {
		return "", errors.NewImportError("import confirmation carried no name", item, nil)
	}

	c.logger.Info("Import completed", zap.String("item", item), zap.String("name", parsed.Name))
	return parsed.Name, nil
}
