package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hjaltalin/caselink/internal/model"
	"github.com/hjaltalin/caselink/internal/pipeline"
	"github.com/hjaltalin/caselink/internal/store"
)

var (
	runTimeout time.Duration
	noCache    bool
	noRobots   bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl both listing pages and update the persisted dataset",
	Long: `Crawl runs the full pipeline:
- Discover detail links on the verdict and decision listing pages
- Extract the Supreme Court case number from each detail page
- Resolve embedded Court of Appeal links to appeals case numbers
- Merge with the saved dataset (existing records always win)
- Rewrite the CSV dataset and the appeals-number JSON lookup

Example:
  caselink crawl
  caselink crawl --csv data/cases.csv --json data/appeals_mapping.json
  caselink crawl --no-cache --verbose`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	defaults := model.DefaultConfig()
	flags := crawlCmd.Flags()

	// Output flags
	flags.String("csv", defaults.Output.CSVPath, "persisted dataset CSV path")
	flags.String("json", defaults.Output.JSONPath, "appeals-number lookup JSON path")

	// HTTP flags
	flags.DurationVar(&runTimeout, "run-timeout", 30*time.Minute, "overall crawl timeout")
	flags.Duration("timeout", defaults.HTTP.Timeout, "per-request timeout")
	flags.String("ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	flags.Int64("max-bytes", defaults.HTTP.MaxBodyBytes, "max response bytes to read")
	flags.BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetches)")
	flags.String("cache-dir", defaults.Cache.Dir, "page cache directory")
	flags.BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	flags.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Source flags
	flags.String("base-url", defaults.Sources.BaseURL, "Supreme Court site base URL")
	flags.Int("cutoff-year", defaults.Sources.AppealsYearCutoff, "ignore appeals case numbers before this year")

	bindCrawlFlags()
}

// bindCrawlFlags maps the crawl flags onto their config keys, so an
// explicitly set flag wins over config-file and environment values while an
// untouched flag contributes only its default
func bindCrawlFlags() {
	flags := crawlCmd.Flags()

	_ = viper.BindPFlag("output.csv_path", flags.Lookup("csv"))
	_ = viper.BindPFlag("output.json_path", flags.Lookup("json"))
	_ = viper.BindPFlag("http.timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("http.user_agent", flags.Lookup("ua"))
	_ = viper.BindPFlag("http.max_body_bytes", flags.Lookup("max-bytes"))
	_ = viper.BindPFlag("http.insecure_tls", flags.Lookup("insecure"))
	_ = viper.BindPFlag("http.http_proxy", flags.Lookup("http-proxy"))
	_ = viper.BindPFlag("http.https_proxy", flags.Lookup("https-proxy"))
	_ = viper.BindPFlag("cache.dir", flags.Lookup("cache-dir"))
	_ = viper.BindPFlag("sources.base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("sources.appeals_year_cutoff", flags.Lookup("cutoff-year"))
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := loadConfig()
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.Robots.Enabled = false
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Crawling: %s\n", cfg.Sources.BaseURL)
		fmt.Fprintf(os.Stderr, "Dataset:  %s\n", cfg.Output.CSVPath)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, store.NewCSVStore(cfg.Output.CSVPath))

	summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("Found %d verdicts, %d decisions\n", summary.VerdictLinks, summary.DecisionLinks)
	fmt.Printf("Done → %s (%d new rows, total %d)\n", cfg.Output.CSVPath, summary.AddedRecords, summary.TotalRecords)
	fmt.Printf("Wrote %s (%d groups, %d entries)\n", cfg.Output.JSONPath, summary.Groups, summary.GroupEntries)

	return nil
}
