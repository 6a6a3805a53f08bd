package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"go.uber.org/zap"
)

// RealmTagRaw is a structured tag from the realm catalog.
type RealmTagRaw struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// RealmItemRaw represents one raw item from the realm catalog's embedded
// JSON payload.
type RealmItemRaw struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Desc          string        `json:"desc,omitempty"`
	Tags          []RealmTagRaw `json:"tags,omitempty"`
	CustomTags    []string      `json:"custom_tags,omitempty"`
	Img           string        `json:"img,omitempty"`
	NSFWImg       bool          `json:"nsfw_img,omitempty"`
	DownloadCount int           `json:"download_count,omitempty"`
	HasGallery    bool          `json:"has_gallery,omitempty"`
	CreatedAt     string        `json:"created_at,omitempty"`
	LastUpdated   string        `json:"last_updated,omitempty"`
}

type realmEnvelope struct {
	Data []RealmItemRaw `json:"data"`
}

// RealmAdapter reaches the realm catalog through a scrape proxy: the catalog
// has no browser-accessible API, so its query URL is rendered server-side
// and the JSON payload is lifted out of the returned page body.
type RealmAdapter struct {
	proxy     *ScrapeProxyClient
	searchURL string
	pageSize  int
	logger    *zap.Logger
}

func NewRealmAdapter(proxy *ScrapeProxyClient, pageSize int, logger *zap.Logger) *RealmAdapter {
	return &RealmAdapter{
		proxy:     proxy,
		searchURL: constants.APIConfig.RealmSearchURL,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// WithSearchURL overrides the catalog search URL. Used by tests.
func (a *RealmAdapter) WithSearchURL(searchURL string) *RealmAdapter {
	a.searchURL = searchURL
	return a
}

func (a *RealmAdapter) Kind() domain.Provider {
	return domain.ProviderRealm
}

func (a *RealmAdapter) FetchRaw(ctx context.Context, query domain.QuerySpec) []RawItem {
	targetURL := a.buildSearchURL(query)

	body, err := a.proxy.Render(ctx, targetURL)
	if err != nil {
		a.logger.Error("Realm search via scrape proxy failed",
			zap.String("target_url", targetURL),
			zap.Error(err),
		)
		return []RawItem{}
	}

	payload, err := extractEmbeddedJSON(body)
	if err != nil {
		a.logger.Error("Failed to locate realm payload in rendered page",
			zap.String("target_url", targetURL),
			zap.Error(err),
		)
		return []RawItem{}
	}

	var envelope realmEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		a.logger.Error("Failed to parse realm payload", zap.Error(err))
		return []RawItem{}
	}

	items := make([]RawItem, len(envelope.Data))
	for i := range envelope.Data {
		items[i] = RawItem{
			Provider: domain.ProviderRealm,
			Realm:    &envelope.Data[i],
		}
	}
	return items
}

func (a *RealmAdapter) buildSearchURL(query domain.QuerySpec) string {
	pageSize := a.pageSize
	if query.PageSize > 0 {
		pageSize = query.PageSize
	}

	params := url.Values{}
	params.Set("search", query.SearchTerm)
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("nsfw", strconv.FormatBool(query.AllowNSFW))
	params.Set("sort", string(query.Sort))

	return a.searchURL + "?" + params.Encode()
}

// extractEmbeddedJSON pulls the catalog's JSON payload out of a rendered
// page body. The payload lives in the page's pre element; anything else is
// treated as a malformed page.
func extractEmbeddedJSON(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	payload := strings.TrimSpace(doc.Find("pre").First().Text())
	if payload == "" {
		return "", fmt.Errorf("rendered page carried no embedded JSON payload")
	}
	return payload, nil
}
