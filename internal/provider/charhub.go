package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/util"
	"github.com/kapu/character-search-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// CharhubNodeRaw represents one raw search node from the charhub API.
type CharhubNodeRaw struct {
	ID             int      `json:"id"`
	FullPath       string   `json:"fullPath"`
	Name           string   `json:"name"`
	Tagline        string   `json:"tagline,omitempty"`
	Description    string   `json:"description,omitempty"`
	Topics         []string `json:"topics,omitempty"`
	StarCount      int      `json:"starCount,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	RatingCount    int      `json:"ratingCount,omitempty"`
	NTokens        int      `json:"nTokens,omitempty"`
	NChats         int      `json:"n_chats,omitempty"`
	NMessages      int      `json:"n_messages,omitempty"`
	ForksCount     int      `json:"forksCount,omitempty"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	LastActivityAt string   `json:"lastActivityAt,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	Verified       bool     `json:"verified,omitempty"`
	Recommended    bool     `json:"recommended,omitempty"`
	NSFWImage      bool     `json:"nsfw_image,omitempty"`
	HasGallery     bool     `json:"hasGallery,omitempty"`
}

// charhubEnvelope tolerates both response shapes the API is known to emit:
// nodes at the top level, or nested one level under a data key.
type charhubEnvelope struct {
	Nodes []CharhubNodeRaw `json:"nodes"`
	Data  *struct {
		Nodes []CharhubNodeRaw `json:"nodes"`
	} `json:"data,omitempty"`
}

func (e *charhubEnvelope) nodes() []CharhubNodeRaw {
	if len(e.Nodes) > 0 {
		return e.Nodes
	}
	if e.Data != nil {
		return e.Data.Nodes
	}
	return nil
}

// CharhubAdapter queries the charhub REST search API directly.
type CharhubAdapter struct {
	httpClient *http.Client
	baseURL    string
	avatarCDN  string
	pageSize   int
	logger     *zap.Logger
}

func NewCharhubAdapter(pageSize int, logger *zap.Logger) *CharhubAdapter {
	return &CharhubAdapter{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.CharhubTimeout,
		},
		baseURL:   constants.APIConfig.CharhubBaseURL,
		avatarCDN: constants.APIConfig.CharhubAvatarCDN,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// WithBaseURL overrides the API origin. Used by tests.
func (a *CharhubAdapter) WithBaseURL(baseURL string) *CharhubAdapter {
	a.baseURL = baseURL
	return a
}

// WithAvatarCDN overrides the fallback avatar URL pattern. Used by tests.
func (a *CharhubAdapter) WithAvatarCDN(pattern string) *CharhubAdapter {
	a.avatarCDN = pattern
	return a
}

func (a *CharhubAdapter) Kind() domain.Provider {
	return domain.ProviderCharhub
}

// FetchRaw runs the search and resolves every node's card image concurrently
// before returning. Output order matches node order regardless of which
// image fetch completes first.
func (a *CharhubAdapter) FetchRaw(ctx context.Context, query domain.QuerySpec) []RawItem {
	reqURL := a.buildSearchURL(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		a.logger.Error("Failed to build charhub search request", zap.Error(err))
		return []RawItem{}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("Charhub search request failed", zap.Error(err), zap.String("url", reqURL))
		return []RawItem{}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error("Failed to read charhub search response", zap.Error(err))
		return []RawItem{}
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("Charhub search returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("url", reqURL),
		)
		return []RawItem{}
	}

	var envelope charhubEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		a.logger.Error("Failed to parse charhub search response", zap.Error(err))
		return []RawItem{}
	}

	nodes := envelope.nodes()
	if len(nodes) == 0 {
		return []RawItem{}
	}

	return a.resolveItems(ctx, nodes)
}

func (a *CharhubAdapter) buildSearchURL(query domain.QuerySpec) string {
	pageSize := a.pageSize
	if query.PageSize > 0 {
		pageSize = query.PageSize
	}

	params := url.Values{}
	params.Set("search", query.SearchTerm)
	params.Set("first", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("sort", string(query.Sort))
	params.Set("asc", "false")
	params.Set("venus", "true")
	params.Set("include_forks", "true")
	params.Set("min_tokens", strconv.Itoa(constants.SearchConfig.MinTokens))
	params.Set("nsfw", strconv.FormatBool(query.AllowNSFW))
	params.Set("nsfl", strconv.FormatBool(query.AllowNSFW))

	budget := constants.SearchConfig.TagJoinBudget
	if len(query.IncludeTags) > 0 {
		params.Set("topics", util.JoinWithBudget(query.IncludeTags, ",", budget))
	}
	if len(query.ExcludeTags) > 0 {
		params.Set("excludetopics", util.JoinWithBudget(query.ExcludeTags, ",", budget))
	}

	return a.baseURL + constants.APIConfig.CharhubSearchPath + "?" + params.Encode()
}

// resolveItems fans out one card resolution per node and joins before
// returning. The indexed results slice keeps output order aligned with node
// order; completion order does not matter.
func (a *CharhubAdapter) resolveItems(ctx context.Context, nodes []CharhubNodeRaw) []RawItem {
	items := make([]RawItem, len(nodes))
	itemsMu := sync.Mutex{}

	p := pool.New().WithMaxGoroutines(constants.SearchConfig.ImageConcurrency)

	for idx := range nodes {
		idx := idx
		node := nodes[idx]
		p.Go(func() {
			item := RawItem{Provider: domain.ProviderCharhub, Charhub: &node}

			image, err := a.ResolveCard(ctx, node.FullPath)
			if err != nil {
				// The item survives without image bytes; one bad image must
				// not drop the item or fail the batch.
				a.logger.Warn("Card resolution failed",
					zap.String("full_path", node.FullPath),
					zap.Error(err),
				)
			} else {
				item.Image = image
			}

			itemsMu.Lock()
			items[idx] = item
			itemsMu.Unlock()
		})
	}

	p.Wait()

	return items
}

// ResolveCard fetches the binary card for one item. It tries the download
// endpoint first and falls back once to the avatar CDN; if both attempts
// fail the error propagates to the caller.
func (a *CharhubAdapter) ResolveCard(ctx context.Context, fullPath string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"fullPath": fullPath,
		"format":   "tavern",
		"version":  "main",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+constants.APIConfig.CharhubDownloadPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return io.ReadAll(resp.Body)
		}
		a.logger.Debug("Card download returned non-success status, trying avatar CDN",
			zap.Int("status", resp.StatusCode),
			zap.String("full_path", fullPath),
		)
	} else {
		a.logger.Debug("Card download request failed, trying avatar CDN",
			zap.String("full_path", fullPath),
			zap.Error(err),
		)
	}

	return a.fetchAvatarFallback(ctx, fullPath)
}

func (a *CharhubAdapter) fetchAvatarFallback(ctx context.Context, fullPath string) ([]byte, error) {
	fallbackURL := fmt.Sprintf(a.avatarCDN, fullPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fallbackURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAPIError("avatar fallback request failed", 502, map[string]any{
			"full_path": fullPath,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError(
			fmt.Sprintf("avatar fallback status %d", resp.StatusCode),
			resp.StatusCode,
			map[string]any{"full_path": fullPath},
		)
	}

	return io.ReadAll(resp.Body)
}
