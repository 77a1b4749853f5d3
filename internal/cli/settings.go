package cli

import (
	"github.com/spf13/viper"

	"github.com/hjaltalin/caselink/internal/model"
)

// loadConfig assembles the effective configuration. Precedence, highest
// first: explicitly set flags, CASELINK_* environment variables, the config
// file, built-in defaults.
//
// Keys bound to a crawl flag fall back to the flag default, which carries
// the built-in default, so those are read unconditionally; keys without a
// flag apply only when the file or environment sets them.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	cfg.HTTP.MaxBodyBytes = viper.GetInt64("http.max_body_bytes")
	cfg.HTTP.InsecureTLS = viper.GetBool("http.insecure_tls")
	cfg.HTTP.HTTPProxy = viper.GetString("http.http_proxy")
	cfg.HTTP.HTTPSProxy = viper.GetString("http.https_proxy")
	cfg.Cache.Dir = viper.GetString("cache.dir")
	cfg.Sources.BaseURL = viper.GetString("sources.base_url")
	cfg.Sources.AppealsYearCutoff = viper.GetInt("sources.appeals_year_cutoff")
	cfg.Output.CSVPath = viper.GetString("output.csv_path")
	cfg.Output.JSONPath = viper.GetString("output.json_path")
	cfg.Output.Verbose = viper.GetBool("verbose")

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.memory_ttl") {
		cfg.Cache.MemoryTTL = viper.GetDuration("cache.memory_ttl")
	}
	if viper.IsSet("cache.disk_ttl") {
		cfg.Cache.DiskTTL = viper.GetDuration("cache.disk_ttl")
	}
	if viper.IsSet("robots.enabled") {
		cfg.Robots.Enabled = viper.GetBool("robots.enabled")
	}
	if viper.IsSet("sources.verdict_list_path") {
		cfg.Sources.VerdictListPath = viper.GetString("sources.verdict_list_path")
	}
	if viper.IsSet("sources.verdict_detail_prefix") {
		cfg.Sources.VerdictDetailPrefix = viper.GetString("sources.verdict_detail_prefix")
	}
	if viper.IsSet("sources.decision_list_path") {
		cfg.Sources.DecisionListPath = viper.GetString("sources.decision_list_path")
	}
	if viper.IsSet("sources.decision_detail_prefix") {
		cfg.Sources.DecisionDetailPrefix = viper.GetString("sources.decision_detail_prefix")
	}
	if viper.IsSet("sources.appeals_host") {
		cfg.Sources.AppealsHost = viper.GetString("sources.appeals_host")
	}

	return cfg
}
