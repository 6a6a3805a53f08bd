package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"go.uber.org/zap"
)

// BatchResult is the outcome of one batch translation. Degraded marks that
// the remote call failed and every entry fell back to identity; callers can
// branch on it instead of guessing from the map contents.
type BatchResult struct {
	Map      domain.TranslationMap
	Degraded bool
}

// BatchTranslator is the capability the merger needs.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, target string) BatchResult
}

// Gateway calls the external batch-translation endpoint. Translation is
// best-effort everywhere: a failure degrades to the identity map and never
// blocks or fails a search.
type Gateway struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	enabled    bool
	logger     *zap.Logger
}

type translateRequest struct {
	Texts  []string `json:"texts"`
	Target string   `json:"target"`
}

type translateResponse struct {
	Success      bool `json:"success"`
	Translations []struct {
		TranslatedText string `json:"translated_text"`
	} `json:"translations"`
}

func NewGateway(endpoint, apiKey string, enabled bool, logger *zap.Logger) *Gateway {
	return &Gateway{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.TranslateTimeout,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
		enabled:  enabled,
		logger:   logger,
	}
}

// Enabled reports whether translation is switched on.
func (g *Gateway) Enabled() bool {
	return g.enabled
}

// TranslateBatch maps every input text to a translation in one HTTP call.
// The returned map is total over texts: disabled translation, transport
// failure, a non-success response and missing or empty response entries all
// fall back to identity for the affected texts.
func (g *Gateway) TranslateBatch(ctx context.Context, texts []string, target string) BatchResult {
	if !g.enabled || len(texts) == 0 {
		return BatchResult{Map: domain.IdentityMap(texts)}
	}

	payload, err := json.Marshal(translateRequest{Texts: texts, Target: target})
	if err != nil {
		g.logger.Error("Failed to encode translation request", zap.Error(err))
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		g.logger.Error("Failed to build translation request", zap.Error(err))
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("Translation request failed, degrading to identity",
			zap.Int("text_count", len(texts)),
			zap.Error(err),
		)
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.Warn("Failed to read translation response", zap.Error(err))
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("Translation endpoint returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.Int("text_count", len(texts)),
		)
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		g.logger.Warn("Failed to parse translation response", zap.Error(err))
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}

	if !parsed.Success {
		g.logger.Warn("Translation endpoint reported failure", zap.Int("text_count", len(texts)))
		return BatchResult{Map: domain.IdentityMap(texts), Degraded: true}
	}

	// Response entries are index-aligned with the request. Missing or empty
	// entries fall back to identity so the map stays total.
	m := make(domain.TranslationMap, len(texts))
	for i, text := range texts {
		if i < len(parsed.Translations) && parsed.Translations[i].TranslatedText != "" {
			m[text] = parsed.Translations[i].TranslatedText
		} else {
			m[text] = text
		}
	}

	return BatchResult{Map: m}
}

// TranslateText translates a single string, reporting whether the value
// actually changed. Used for search-term pre-translation.
func (g *Gateway) TranslateText(ctx context.Context, text, target string) (string, bool) {
	if !g.enabled || text == "" {
		return text, false
	}

	result := g.TranslateBatch(ctx, []string{text}, target)
	translated := result.Map.Get(text)
	return translated, translated != text
}
