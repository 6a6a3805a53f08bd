package app

import (
	"fmt"

	"github.com/kapu/character-search-go/internal/config"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/importer"
	"github.com/kapu/character-search-go/internal/normalize"
	"github.com/kapu/character-search-go/internal/provider"
	"github.com/kapu/character-search-go/internal/search"
	"github.com/kapu/character-search-go/internal/translate"
	"go.uber.org/zap"
)

// Container bundles the assembled pipeline for the CLI and any embedding
// host. All wiring happens in Build so commands stay focused on I/O.
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Orchestrator *search.Orchestrator
	Controller   *search.Controller
	Charhub      *provider.CharhubAdapter
	Importer     *importer.HostClient
}

// Build assembles adapters, the normalizer, the translation pipeline and the
// orchestrator from configuration.
func Build(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	gateway := translate.NewGateway(
		cfg.Translation.Endpoint,
		cfg.Translation.APIKey,
		cfg.Translation.Enabled,
		logger,
	)
	merger := translate.NewMerger(gateway, cfg.Translation.TargetLang, logger)
	normalizer := normalize.NewNormalizer(logger)

	charhub := provider.NewCharhubAdapter(cfg.Search.PageSize, logger)
	adapters := []provider.Adapter{charhub}

	// The realm adapter only exists when the scrape proxy is configured;
	// the catalog is unreachable without it.
	if cfg.ScrapeProxy.Endpoint != "" {
		proxy := provider.NewScrapeProxyClient(cfg.ScrapeProxy.Endpoint, cfg.ScrapeProxy.APIKey, logger)
		adapters = append(adapters, provider.NewRealmAdapter(proxy, cfg.Search.PageSize, logger))
	}

	orchestrator, err := search.NewOrchestrator(
		adapters,
		normalizer,
		merger,
		gateway,
		cfg.Provider.Selected,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble orchestrator: %w", err)
	}

	initial := domain.QuerySpec{
		AllowNSFW: cfg.Search.NSFWDefault,
		Sort:      cfg.Provider.DefaultSort,
		Page:      1,
		PageSize:  cfg.Search.PageSize,
	}

	controller := search.NewController(
		orchestrator,
		search.NewDebouncer(constants.DebounceConfig.QuietPeriod),
		initial,
		logger,
	)

	hostImporter := importer.NewHostClient(cfg.Import.HostBaseURL, logger)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Orchestrator: orchestrator,
		Controller:   controller,
		Charhub:      charhub,
		Importer:     hostImporter,
	}, nil
}
