package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete seopilot configuration
type Config struct {
	Oracle      OracleConfig       `mapstructure:"oracle" yaml:"oracle"`
	Site        SiteConfig         `mapstructure:"site" yaml:"site"`
	Keywords    []string           `mapstructure:"keywords" yaml:"keywords"`
	Competitors []CompetitorConfig `mapstructure:"competitors" yaml:"competitors"`
	Tasks       TasksConfig        `mapstructure:"tasks" yaml:"tasks"`
	Dispatch    DispatchConfig     `mapstructure:"dispatch" yaml:"dispatch"`
	Scripts     ScriptsConfig      `mapstructure:"scripts" yaml:"scripts"`
	Output      OutputConfig       `mapstructure:"output" yaml:"output"`
	Logging     LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
	Lock        LockConfig         `mapstructure:"lock" yaml:"lock"`
}

// OracleConfig controls how the ranking oracle is reached
type OracleConfig struct {
	// BaseURL is the scheme and host of the ranking service
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// RankingPath is the lookup endpoint; the keyword is sent as the "q" parameter
	RankingPath string `mapstructure:"ranking_path" yaml:"ranking_path"`
	// RequestTimeoutSeconds bounds a single lookup (default: 10)
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	// HealthTimeoutSeconds bounds the startup health check (default: 2)
	HealthTimeoutSeconds int `mapstructure:"health_timeout_seconds" yaml:"health_timeout_seconds"`
	// DelayMs is the pause between consecutive lookups (default: 1500, minimum: 1500)
	DelayMs int `mapstructure:"delay_ms" yaml:"delay_ms"`
	// Window is how many results the oracle inspects; keywords outside it are unranked (default: 20)
	Window int `mapstructure:"window" yaml:"window"`
}

// SiteConfig describes the site whose pages are improved
type SiteConfig struct {
	// BaseURL is prefixed to keyword slugs to form suggested URLs
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// CompetitorConfig names a competitor domain tracked in the rank report
type CompetitorConfig struct {
	// Domain is the key used in the oracle's competitor_positions mapping
	Domain string `mapstructure:"domain" yaml:"domain"`
	// Column is the rank report column holding the competitor's position
	Column string `mapstructure:"column" yaml:"column"`
}

// TasksConfig controls task selection for an implement run
type TasksConfig struct {
	// Source is the CSV file of scored work items
	Source string `mapstructure:"source" yaml:"source"`
	// MaxPerRun caps how many tasks are acted on per run (default: 5)
	MaxPerRun int `mapstructure:"max_per_run" yaml:"max_per_run"`
	// PriorityThreshold is the minimum priority score to qualify (default: 1.0)
	PriorityThreshold float64 `mapstructure:"priority_threshold" yaml:"priority_threshold"`
	// DryRun reports every routable task as implemented without side effects
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run"`
}

// DispatchConfig controls external invocations
type DispatchConfig struct {
	// TimeoutSeconds bounds every external invocation (default: 30)
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ScriptsConfig locates the page-editing scripts
type ScriptsConfig struct {
	// Node is the interpreter used to run the scripts
	Node string `mapstructure:"node" yaml:"node"`
	// Dir is the directory containing the scripts
	Dir string `mapstructure:"dir" yaml:"dir"`
	// CreateLanding is the page-creation script file name
	CreateLanding string `mapstructure:"create_landing" yaml:"create_landing"`
	// OptimizeLanding is the page-optimization script file name
	OptimizeLanding string `mapstructure:"optimize_landing" yaml:"optimize_landing"`
	// FixTechIssues is the issue-remediation script file name
	FixTechIssues string `mapstructure:"fix_tech_issues" yaml:"fix_tech_issues"`
}

// OutputConfig names the files a run writes
type OutputConfig struct {
	// RankReport is the CSV of raw rank observations
	RankReport string `mapstructure:"rank_report" yaml:"rank_report"`
	// EnrichedTasks is the CSV of classified work items
	EnrichedTasks string `mapstructure:"enriched_tasks" yaml:"enriched_tasks"`
	// Summary is the JSON run summary
	Summary string `mapstructure:"summary" yaml:"summary"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where seopilot.log is written; empty logs to stderr
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// MetricsConfig controls run metrics export
type MetricsConfig struct {
	// Textfile is a node-exporter textfile path; empty disables export
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// LockConfig controls the single-run guard
type LockConfig struct {
	// Dir holds the run lock file (default: ".seopilot")
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DefaultKeywords are the tracked Orlando target keywords.
func DefaultKeywords() []string {
	return []string{
		"psychiatrist orlando",
		"psychiatry orlando",
		"child psychiatrist orlando",
		"adhd psychiatrist orlando",
		"anxiety psychiatrist orlando",
		"bipolar psychiatrist orlando",
		"medication management orlando",
		"telepsychiatry orlando",
		"same day psychiatrist orlando",
		"psychiatrist orlando accepts cigna",
		"psychiatrist orlando accepts bcbs",
		"psychiatrist orlando accepts umr",
	}
}

// DefaultCompetitors are the competitor domains tracked in the rank report.
func DefaultCompetitors() []CompetitorConfig {
	return []CompetitorConfig{
		{Domain: "healingpsychiatryflorida.com", Column: "healing_psychiatry_position"},
		{Domain: "mymindcarecenter.com", Column: "mymindcare_position"},
		{Domain: "orlandohealth.com", Column: "orlando_health_position"},
	}
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			BaseURL:               "http://localhost:5000",
			RankingPath:           "/api/serp/ranking",
			RequestTimeoutSeconds: 10,
			HealthTimeoutSeconds:  2,
			DelayMs:               MinDelayMs,
			Window:                20,
		},
		Site: SiteConfig{
			BaseURL: "https://empathyhealthclinic.com",
		},
		Keywords:    DefaultKeywords(),
		Competitors: DefaultCompetitors(),
		Tasks: TasksConfig{
			Source:            "tasks_final.csv",
			MaxPerRun:         5,
			PriorityThreshold: 1.0,
			DryRun:            false,
		},
		Dispatch: DispatchConfig{
			TimeoutSeconds: 30,
		},
		Scripts: ScriptsConfig{
			Node:            "node",
			Dir:             "scripts",
			CreateLanding:   "create-insurance-landing.js",
			OptimizeLanding: "optimize-landing.js",
			FixTechIssues:   "fix-tech-issues.js",
		},
		Output: OutputConfig{
			RankReport:    "serp_ranks.csv",
			EnrichedTasks: "tasks_enriched.csv",
			Summary:       "implementation_summary.json",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
		Lock: LockConfig{
			Dir: ".seopilot",
		},
	}
}

// RequestTimeout returns the per-lookup timeout as a time.Duration
func (c *OracleConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// HealthTimeout returns the health check timeout as a time.Duration
func (c *OracleConfig) HealthTimeout() time.Duration {
	return time.Duration(c.HealthTimeoutSeconds) * time.Second
}

// Delay returns the inter-lookup delay as a time.Duration
func (c *OracleConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Timeout returns the invocation timeout as a time.Duration
func (c *DispatchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScriptPath joins a script file name onto the scripts directory.
func (c *ScriptsConfig) ScriptPath(name string) string {
	return filepath.Join(c.Dir, name)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Oracle defaults
	viper.SetDefault("oracle.base_url", defaults.Oracle.BaseURL)
	viper.SetDefault("oracle.ranking_path", defaults.Oracle.RankingPath)
	viper.SetDefault("oracle.request_timeout_seconds", defaults.Oracle.RequestTimeoutSeconds)
	viper.SetDefault("oracle.health_timeout_seconds", defaults.Oracle.HealthTimeoutSeconds)
	viper.SetDefault("oracle.delay_ms", defaults.Oracle.DelayMs)
	viper.SetDefault("oracle.window", defaults.Oracle.Window)

	viper.SetDefault("site.base_url", defaults.Site.BaseURL)
	viper.SetDefault("keywords", defaults.Keywords)
	viper.SetDefault("competitors", defaults.Competitors)

	// Task selection defaults
	viper.SetDefault("tasks.source", defaults.Tasks.Source)
	viper.SetDefault("tasks.max_per_run", defaults.Tasks.MaxPerRun)
	viper.SetDefault("tasks.priority_threshold", defaults.Tasks.PriorityThreshold)
	viper.SetDefault("tasks.dry_run", defaults.Tasks.DryRun)

	viper.SetDefault("dispatch.timeout_seconds", defaults.Dispatch.TimeoutSeconds)

	// Script defaults
	viper.SetDefault("scripts.node", defaults.Scripts.Node)
	viper.SetDefault("scripts.dir", defaults.Scripts.Dir)
	viper.SetDefault("scripts.create_landing", defaults.Scripts.CreateLanding)
	viper.SetDefault("scripts.optimize_landing", defaults.Scripts.OptimizeLanding)
	viper.SetDefault("scripts.fix_tech_issues", defaults.Scripts.FixTechIssues)

	// Output defaults
	viper.SetDefault("output.rank_report", defaults.Output.RankReport)
	viper.SetDefault("output.enriched_tasks", defaults.Output.EnrichedTasks)
	viper.SetDefault("output.summary", defaults.Output.Summary)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	viper.SetDefault("metrics.textfile", defaults.Metrics.Textfile)
	viper.SetDefault("lock.dir", defaults.Lock.Dir)
}

// BindLegacyEnv binds environment variables used by the scripts this tool
// replaces. AUTO_IMPLEMENT_DRY_RUN toggles dry-run mode.
func BindLegacyEnv() {
	_ = viper.BindEnv("tasks.dry_run", "SEOPILOT_TASKS_DRY_RUN", "AUTO_IMPLEMENT_DRY_RUN")
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "seopilot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seopilot"
	}
	return filepath.Join(home, ".config", "seopilot")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
