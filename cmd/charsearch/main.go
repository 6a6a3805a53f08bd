package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kapu/character-search-go/internal/app"
	"github.com/kapu/character-search-go/internal/config"
	"github.com/kapu/character-search-go/internal/constants"
	"github.com/kapu/character-search-go/internal/domain"
	"github.com/kapu/character-search-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "charsearch",
		Short:         "Search character catalogs and import cards into the host application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCmd())
	root.AddCommand(newImportCmd())

	return root
}

func buildContainer() (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble services", zap.Error(err))
		return nil, err
	}

	return container, nil
}

func newSearchCmd() *cobra.Command {
	var (
		providerName string
		tags         []string
		excludeTags  []string
		nsfw         bool
		sortKey      string
		page         int
		pageSize     int
	)

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search the configured character catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			if providerName != "" {
				if err := container.Orchestrator.UseProvider(domain.Provider(providerName)); err != nil {
					return err
				}
			}

			term := ""
			if len(args) > 0 {
				term = args[0]
			}

			selected := container.Orchestrator.Provider()
			sort := domain.SortKey(sortKey)
			if sortKey == "" {
				sort = container.Config.Provider.DefaultSort
			}
			if !selected.SupportsSort(sort) {
				return fmt.Errorf("sort key %q is not supported by provider %q (supported: %s)",
					sort, selected, joinSortKeys(selected.SortKeys()))
			}

			query := domain.QuerySpec{
				SearchTerm:  term,
				IncludeTags: tags,
				ExcludeTags: excludeTags,
				AllowNSFW:   nsfw || container.Config.Search.NSFWDefault,
				Sort:        sort,
				Page:        page,
				PageSize:    pageSize,
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			records := container.Orchestrator.Search(ctx, query)
			if len(records) == 0 {
				fmt.Println("검색 결과가 없습니다.")
				return nil
			}

			for i, record := range records {
				printRecord(i+1, record)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "catalog provider (charhub or realm)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags that must be present")
	cmd.Flags().StringSliceVar(&excludeTags, "exclude-tags", nil, "tags that must be absent")
	cmd.Flags().BoolVar(&nsfw, "nsfw", false, "include NSFW results")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key (provider-specific)")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (0 = configured default)")

	return cmd
}

func newImportCmd() *cobra.Command {
	var fromURL string

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Import an item into the host application",
		Long: "Import a charhub item by path (resolves the card and uploads it), " +
			"or pass --url to let the host fetch a remote item directly.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if fromURL != "" {
				name, err := container.Importer.ImportFromURL(ctx, fromURL)
				if err != nil {
					fmt.Println("가져오기에 실패했습니다.")
					return err
				}
				fmt.Printf("가져오기 완료: %s\n", name)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("an item path or --url is required")
			}
			path := args[0]

			blob, err := container.Charhub.ResolveCard(ctx, path)
			if err != nil {
				fmt.Println("가져오기에 실패했습니다.")
				return err
			}

			fileName := strings.ReplaceAll(path, "/", "_") + ".png"
			name, err := container.Importer.ImportCard(ctx, fileName, blob)
			if err != nil {
				fmt.Println("가져오기에 실패했습니다.")
				return err
			}

			fmt.Printf("가져오기 완료: %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromURL, "url", "", "remote item URL for host-side import")

	return cmd
}

func printRecord(index int, record *domain.CharacterRecord) {
	fmt.Printf("%d. %s", index, util.TruncateString(record.Name, constants.StringLimits.DisplayName))
	if record.NameTranslated {
		fmt.Printf(" (%s)", record.OriginalName)
	}
	fmt.Println()

	fmt.Printf("   %s\n", util.TruncateString(record.Description, constants.StringLimits.DisplayDescription))

	if len(record.Tags) > 0 {
		parts := make([]string, 0, len(record.Tags))
		for _, tag := range record.Tags {
			if tag.WasTranslated {
				parts = append(parts, fmt.Sprintf("%s(%s)", tag.DisplayText, tag.OriginalValue))
			} else {
				parts = append(parts, tag.DisplayText)
			}
		}
		fmt.Printf("   태그: %s\n", strings.Join(parts, ", "))
	}

	stats := fmt.Sprintf("   평점 %.1f(%d)", record.Rating, record.RatingCount)
	if record.HasStarCount {
		stats += fmt.Sprintf(" | ★ %d", record.StarCount)
	}
	stats += fmt.Sprintf(" | 토큰 %d | 경로 %s", record.TokenCount, record.Path)
	fmt.Println(stats)
}

func joinSortKeys(keys []domain.SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
