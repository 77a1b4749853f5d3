package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	Robots  RobotsConfig  `yaml:"robots"`
	Sources SourcesConfig `yaml:"sources"`
	Output  OutputConfig  `yaml:"output"`
}

// HTTPConfig configures the fetch layer
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
}

// CacheConfig configures the page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RobotsConfig configures robots.txt compliance
type RobotsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SourcesConfig describes the remote court sites being crawled.
// Detail prefixes are matched against the resolved URL path; the prefix
// root itself is never treated as a detail page.
type SourcesConfig struct {
	BaseURL              string `yaml:"base_url"`
	VerdictListPath      string `yaml:"verdict_list_path"`
	VerdictDetailPrefix  string `yaml:"verdict_detail_prefix"`
	DecisionListPath     string `yaml:"decision_list_path"`
	DecisionDetailPrefix string `yaml:"decision_detail_prefix"`
	AppealsHost          string `yaml:"appeals_host"`
	AppealsYearCutoff    int    `yaml:"appeals_year_cutoff"`
}

// OutputConfig configures the persisted outputs
type OutputConfig struct {
	CSVPath  string `yaml:"csv_path"`
	JSONPath string `yaml:"json_path"`
	Verbose  bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) caselink/0.1 (+https://github.com/hjaltalin/caselink)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".caselink-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Robots: RobotsConfig{
			Enabled: true,
		},
		Sources: SourcesConfig{
			BaseURL:              "https://www.haestirettur.is",
			VerdictListPath:      "/domar/",
			VerdictDetailPrefix:  "/domar/_domur/",
			DecisionListPath:     "/akvardanir/",
			DecisionDetailPrefix: "/akvardanir/",
			AppealsHost:          "landsrettur.is",
			AppealsYearCutoff:    2018,
		},
		Output: OutputConfig{
			CSVPath:  "data/cases.csv",
			JSONPath: "data/appeals_mapping.json",
		},
	}
}
