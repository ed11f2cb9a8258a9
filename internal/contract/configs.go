package contract

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/wctc-net-database/gradedash/schema"
)

// Default values for configuration.
const (
	DefaultDataSource      = "data"
	DefaultBugThreshold    = 0
	DefaultSmellThreshold  = 10
	DefaultTrendDelta      = 5
	DefaultMaxErrorLines   = 5
	DefaultAnalysisBaseURL = "https://sonarcloud.io"
	DefaultRepoBaseURL     = "https://github.com/WCTC-Net-Database"
	DefaultServeAddr       = "127.0.0.1:8080"
	DefaultFetchTimeout    = 15 * time.Second
	DefaultDebounce        = 500 * time.Millisecond
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ThresholdsRawInput holds feedback threshold definitions from the YAML config file.
type ThresholdsRawInput struct {
	Bugs       *int `mapstructure:"bugs"`
	CodeSmells *int `mapstructure:"code_smells"`
	Trend      *int `mapstructure:"trend"`
	ErrorLines *int `mapstructure:"error_lines"`
}

// GoalRawInput is one stretch goal catalog entry from the YAML config file.
type GoalRawInput struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	Week       string `mapstructure:"week"`
	Assignment string `mapstructure:"assignment"`
}

// Config holds the runtime configuration for the dashboard.
// This struct is the "final, validated" config.
type Config struct {
	DataSource string // directory path or http(s) base URL
	Offline    bool   // serve documents from the local cache only

	Assignment string // pattern or schema.AllAssignments
	Status     schema.StatusFilter
	StartTime  time.Time // zero means unbounded
	EndTime    time.Time // zero means unbounded
	Location   *time.Location

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Abbreviate bool // shorten student names in tables

	BugThreshold    int
	SmellThreshold  int
	TrendDelta      int
	MaxErrorLines   int
	AnalysisBaseURL string
	RepoBaseURL     string

	GoalsFile string
	Goals     []schema.StretchGoal // overrides from the config file, merged over the built-in catalog

	CreditBackend   schema.DatabaseBackend
	CreditDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	ServeAddr    string
	FetchTimeout time.Duration
	Debounce     time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Data            string `mapstructure:"data"`
	Offline         bool   `mapstructure:"offline"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	Abbreviate      bool   `mapstructure:"abbreviate"`
	Timezone        string `mapstructure:"timezone"`
	GoalsFile       string `mapstructure:"goals-file"`
	CreditBackend   string `mapstructure:"credit-backend"`
	CreditDBConnect string `mapstructure:"credit-db-connect"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	FetchTimeout    string `mapstructure:"fetch-timeout"`

	// --- Filter flags shared by view commands ---
	Assignment string `mapstructure:"assignment"`
	Status     string `mapstructure:"status"`
	Start      string `mapstructure:"start"`
	End        string `mapstructure:"end"`
	Days       int    `mapstructure:"days"`

	// --- Fields from serveCmd and watchCmd ---
	Addr     string `mapstructure:"addr"`
	Debounce string `mapstructure:"debounce"`

	// --- Config file only ---
	AnalysisURL string             `mapstructure:"analysis-url"`
	RepoURL     string             `mapstructure:"repo-url"`
	Thresholds  ThresholdsRawInput `mapstructure:"thresholds"`
	Goals       []GoalRawInput     `mapstructure:"goals"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Goals = slices.Clone(c.Goals)
	return &clone
}

// CreditsEnabled reports whether stretch credits have a backing store.
// The none backend keeps an in-memory store for reads only.
func (c *Config) CreditsEnabled() bool {
	return c != nil && c.CreditBackend != schema.NoneBackend
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	return processGoals(cfg, input)
}

// validateSimpleInputs processes and validates the output, source and timing fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Abbreviate = input.Abbreviate
	cfg.Offline = input.Offline
	cfg.GoalsFile = input.GoalsFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	source, err := NormalizeDataSource(input.Data)
	if err != nil {
		return err
	}
	cfg.DataSource = source

	cfg.Location = time.Local
	if input.Timezone != "" {
		loc, err := time.LoadLocation(input.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
		}
		cfg.Location = loc
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := ParseDuration(input.FetchTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --fetch-timeout '%s'", input.FetchTimeout)
		}
		cfg.FetchTimeout = d
	}

	cfg.Debounce = DefaultDebounce
	if input.Debounce != "" {
		d, err := ParseDuration(input.Debounce)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --debounce '%s'", input.Debounce)
		}
		cfg.Debounce = d
	}

	cfg.ServeAddr = input.Addr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	cfg.AnalysisBaseURL = strings.TrimSuffix(input.AnalysisURL, "/")
	if cfg.AnalysisBaseURL == "" {
		cfg.AnalysisBaseURL = DefaultAnalysisBaseURL
	}
	cfg.RepoBaseURL = strings.TrimSuffix(input.RepoURL, "/")
	if cfg.RepoBaseURL == "" {
		cfg.RepoBaseURL = DefaultRepoBaseURL
	}
	return nil
}

// NormalizeDataSource resolves a data location into an absolute directory or a base URL.
func NormalizeDataSource(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultDataSource
	}
	if IsRemoteSource(s) {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("invalid data URL '%s'", s)
		}
		return strings.TrimSuffix(u.String(), "/"), nil
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return "", fmt.Errorf("invalid data directory '%s': %w", s, err)
	}
	return filepath.Clean(abs), nil
}

// IsRemoteSource reports whether the data location is an http(s) URL.
func IsRemoteSource(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend lower-cases and validates a backend name.
func ParseBackend(name, flag string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(name))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s '%s'. must be sqlite, mysql, postgresql, none", flag, name)
	}
	return backend, nil
}

// validateBackendConfigs validates credit and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.CreditBackend, "credit backend")
	if err != nil {
		return err
	}
	cfg.CreditBackend = backend
	cfg.CreditDBConnect = input.CreditDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CreditBackend, cfg.CreditDBConnect); err != nil {
		return err
	}

	backend, err = ParseBackend(input.CacheBackend, "cache backend")
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// Clearing the SQLite cache removes its file, so it must never be the credit file.
	if cfg.CreditBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		creditPath := cfg.CreditDBConnect
		if creditPath == "" {
			creditPath = GetCreditDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if creditPath == cachePath {
			return fmt.Errorf("credit and cache storage must use different SQLite database files. Both resolve to %q", creditPath)
		}
	}
	return nil
}

// processFilters handles the assignment, status and date range inputs.
func processFilters(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Assignment = strings.TrimSpace(input.Assignment)
	if cfg.Assignment == "" {
		cfg.Assignment = schema.AllAssignments
	}

	cfg.Status = schema.StatusFilter(strings.ToLower(strings.TrimSpace(input.Status)))
	if cfg.Status == "" {
		cfg.Status = schema.AllStatus
	}
	if _, ok := schema.ValidStatusFilters[cfg.Status]; !ok {
		return fmt.Errorf("invalid status '%s'. must be all, failed, review, stretch, template", input.Status)
	}

	if input.Days < 0 {
		return fmt.Errorf("days must not be negative (received %d)", input.Days)
	}

	start, end, err := ResolveDateRange(input.Start, input.End, input.Days, now.In(cfg.Location), cfg.Location)
	if err != nil {
		return err
	}
	cfg.StartTime = start
	cfg.EndTime = end
	return nil
}

// FilterInput carries the filter fields of a single API or tool request.
type FilterInput struct {
	Assignment string
	Status     string
	Start      string
	End        string
	Days       int
}

// RevalidateFilters replaces the filter of cfg (usually a Clone of the base config)
// with the values of one request. Empty values select everything.
func RevalidateFilters(cfg *Config, f FilterInput) error {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return processFilters(cfg, &ConfigRawInput{
		Assignment: f.Assignment,
		Status:     f.Status,
		Start:      f.Start,
		End:        f.End,
		Days:       f.Days,
	}, time.Now())
}

// ResolveDateRange turns the raw start/end/days inputs into concrete bounds.
// Empty inputs leave the bound unset. Days is a preset that sets the start to
// midnight N days ago when no explicit start was given.
func ResolveDateRange(startStr, endStr string, days int, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		if start, err = ParseDateBound(startStr, now, loc, false); err != nil {
			return start, end, fmt.Errorf("invalid start date: %w", err)
		}
	} else if days > 0 {
		start = StartOfDay(now.AddDate(0, 0, -days))
	}

	if endStr != "" {
		if end, err = ParseDateBound(endStr, now, loc, true); err != nil {
			return start, end, fmt.Errorf("invalid end date: %w", err)
		}
	}

	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, fmt.Errorf("start time (%s) cannot be after end time (%s)", start.Format(DateTimeFormat), end.Format(DateTimeFormat))
	}
	return start, end, nil
}

// processThresholds applies the feedback thresholds from the config file over the defaults.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.BugThreshold = DefaultBugThreshold
	cfg.SmellThreshold = DefaultSmellThreshold
	cfg.TrendDelta = DefaultTrendDelta
	cfg.MaxErrorLines = DefaultMaxErrorLines

	if input.Thresholds.Bugs != nil {
		cfg.BugThreshold = *input.Thresholds.Bugs
	}
	if input.Thresholds.CodeSmells != nil {
		cfg.SmellThreshold = *input.Thresholds.CodeSmells
	}
	if input.Thresholds.Trend != nil {
		cfg.TrendDelta = *input.Thresholds.Trend
	}
	if input.Thresholds.ErrorLines != nil {
		cfg.MaxErrorLines = *input.Thresholds.ErrorLines
	}

	for name, v := range map[string]int{
		"bugs":        cfg.BugThreshold,
		"code_smells": cfg.SmellThreshold,
		"trend":       cfg.TrendDelta,
		"error_lines": cfg.MaxErrorLines,
	} {
		if v < 0 {
			return fmt.Errorf("threshold %s must not be negative (received %d)", name, v)
		}
	}
	return nil
}

// processGoals validates the inline stretch goal overrides.
func processGoals(cfg *Config, input *ConfigRawInput) error {
	cfg.Goals = nil
	for i, g := range input.Goals {
		id := strings.TrimSpace(g.ID)
		if id == "" {
			return fmt.Errorf("goal #%d in config is missing an id", i+1)
		}
		cfg.Goals = append(cfg.Goals, schema.StretchGoal{
			ID:         id,
			Name:       strings.TrimSpace(g.Name),
			Week:       strings.TrimSpace(g.Week),
			Assignment: strings.TrimSpace(g.Assignment),
		})
	}
	if cfg.GoalsFile != "" {
		if _, err := os.Stat(cfg.GoalsFile); err != nil {
			return fmt.Errorf("goals file %q: %w", cfg.GoalsFile, err)
		}
	}
	return nil
}
