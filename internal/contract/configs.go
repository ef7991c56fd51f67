package contract

import (
	"fmt"
	"maps"
	"net/url"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/fleetwatch/slireport/schema"
)

// Default values for configuration.
const (
	DefaultQueryTimeout = 30 * time.Second
	DefaultRetries      = 3
	DefaultPrecision    = 3
	MaxPrecision        = 6
	MaxWorkers          = 64
)

// CacheGranularity defines the time granularity for caching query results.
// Query samples are reusable within the same as-of bucket, which keeps one
// report run's numbers comparable across repeated invocations in the bucket.
const CacheGranularity = time.Hour

// DefaultWorkers is the default number of concurrent query workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config; components receive it
// by explicit parameter and never read ambient state.
type Config struct {
	InventoryURL string
	MetricsURL   string

	InventoryToken string
	MetricsToken   string

	// PublicKeyPEM is the PEM-encoded RSA public key used to verify the
	// inventory token. Empty means verification is skipped (degraded trust).
	PublicKeyPEM string

	Selectors  []string
	GlobalVars schema.GlobalVars
	Rules      []schema.Rule

	Workers      int
	QueryTimeout time.Duration
	Retries      int

	Output     schema.OutputMode
	OutputFile string
	Title      string
	Footer     string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// RuleRawInput holds one rule definition from the YAML config file.
type RuleRawInput struct {
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Goal        float64 `mapstructure:"goal"`
	Query       string  `mapstructure:"query"`
}

// CredentialRawInput holds the credential section of the config file.
type CredentialRawInput struct {
	InventoryToken string `mapstructure:"inventory_token"`
	MetricsToken   string `mapstructure:"metrics_token"`
	PublicKey      string `mapstructure:"public_key"`
}

// EndpointsRawInput holds the endpoints section of the config file.
type EndpointsRawInput struct {
	InventoryURL string `mapstructure:"inventory_url"`
	MetricsURL   string `mapstructure:"metrics_url"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Sections from the config file ---
	Credential       CredentialRawInput `mapstructure:"credential"`
	Endpoints        EndpointsRawInput  `mapstructure:"endpoints"`
	ClusterSelectors []string           `mapstructure:"cluster_selectors"`
	GlobalVariables  map[string]any     `mapstructure:"global_variables"`
	Rules            []RuleRawInput     `mapstructure:"rules"`

	// --- Fields from rootCmd.PersistentFlags() ---
	Selectors      []string `mapstructure:"selector"`
	Vars           []string `mapstructure:"var"`
	Workers        int      `mapstructure:"workers"`
	QueryTimeout   string   `mapstructure:"query-timeout"`
	Retries        int      `mapstructure:"retries"`
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Title          string   `mapstructure:"title"`
	Footer         string   `mapstructure:"footer"`
	Precision      int      `mapstructure:"precision"`
	Color          string   `mapstructure:"color"`
	Width          int      `mapstructure:"width"`
	CacheBackend   string   `mapstructure:"cache-backend"`
	CacheDBConnect string   `mapstructure:"cache-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Selectors != nil {
		clone.Selectors = slices.Clone(c.Selectors)
	}
	if c.Rules != nil {
		clone.Rules = slices.Clone(c.Rules)
	}
	if c.GlobalVars != nil {
		clone.GlobalVars = make(schema.GlobalVars, len(c.GlobalVars))
		maps.Copy(clone.GlobalVars, c.GlobalVars)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEndpoints(cfg, input); err != nil {
		return err
	}
	if err := processCredential(cfg, input); err != nil {
		return err
	}
	if err := processSelectors(cfg, input); err != nil {
		return err
	}
	if err := processGlobalVars(cfg, input); err != nil {
		return err
	}
	if err := processRules(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Title = input.Title
	cfg.Footer = input.Footer
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Retries Validation ---
	if input.Retries < 0 {
		return fmt.Errorf("retries cannot be negative (received %d)", input.Retries)
	}
	cfg.Retries = input.Retries

	// --- 3. Query Timeout Validation ---
	cfg.QueryTimeout = DefaultQueryTimeout
	if input.QueryTimeout != "" {
		d, err := time.ParseDuration(input.QueryTimeout)
		if err != nil {
			return fmt.Errorf("invalid query-timeout %q: %w", input.QueryTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("query-timeout must be positive (received %s)", d)
		}
		cfg.QueryTimeout = d
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, html, parquet", input.Output)
	}

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// validateBackendConfigs validates the query cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
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

// processEndpoints validates the inventory and metrics URLs.
func processEndpoints(cfg *Config, input *ConfigRawInput) error {
	for name, raw := range map[string]string{
		"endpoints.inventory_url": input.Endpoints.InventoryURL,
		"endpoints.metrics_url":   input.Endpoints.MetricsURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, raw)
		}
	}
	cfg.InventoryURL = strings.TrimRight(input.Endpoints.InventoryURL, "/")
	cfg.MetricsURL = strings.TrimRight(input.Endpoints.MetricsURL, "/")
	return nil
}

// processCredential transfers and sanity-checks the credential section.
// Cryptographic validation happens later, in the auth package, but missing
// tokens are cheap to catch here.
func processCredential(cfg *Config, input *ConfigRawInput) error {
	cfg.InventoryToken = strings.TrimSpace(input.Credential.InventoryToken)
	cfg.MetricsToken = strings.TrimSpace(input.Credential.MetricsToken)
	cfg.PublicKeyPEM = strings.TrimSpace(input.Credential.PublicKey)

	if cfg.InventoryToken == "" {
		return fmt.Errorf("credential.inventory_token is required")
	}
	if cfg.MetricsToken == "" {
		return fmt.Errorf("credential.metrics_token is required")
	}
	return nil
}

// processSelectors applies the --selector overlay over cluster_selectors.
func processSelectors(cfg *Config, input *ConfigRawInput) error {
	selectors := input.ClusterSelectors
	if len(input.Selectors) > 0 {
		selectors = input.Selectors
	}

	cfg.Selectors = make([]string, 0, len(selectors))
	for _, s := range selectors {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("cluster selectors cannot be empty strings")
		}
		cfg.Selectors = append(cfg.Selectors, s)
	}
	if len(cfg.Selectors) == 0 {
		return fmt.Errorf("at least one cluster selector is required (cluster_selectors or --selector)")
	}
	return nil
}

// processGlobalVars converts the config file variables into strings and
// applies the --var overlay. Override keys must already exist in
// global_variables; unknown keys are rejected rather than silently accepted.
func processGlobalVars(cfg *Config, input *ConfigRawInput) error {
	cfg.GlobalVars = make(schema.GlobalVars, len(input.GlobalVariables))
	for name, raw := range input.GlobalVariables {
		switch v := raw.(type) {
		case string:
			cfg.GlobalVars[name] = v
		case bool, int, int64, float64:
			cfg.GlobalVars[name] = fmt.Sprintf("%v", v)
		default:
			return fmt.Errorf("global variable %q must be a scalar, got %T", name, raw)
		}
	}

	for _, pair := range input.Vars {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		if _, exists := cfg.GlobalVars[name]; !exists {
			return fmt.Errorf("--var %q does not match any configured global variable", name)
		}
		cfg.GlobalVars[name] = value
	}
	return nil
}

// processRules validates the configured rules.
func processRules(cfg *Config, input *ConfigRawInput) error {
	if len(input.Rules) == 0 {
		return fmt.Errorf("at least one rule is required")
	}

	seen := make(map[string]struct{}, len(input.Rules))
	cfg.Rules = make([]schema.Rule, 0, len(input.Rules))
	for i, raw := range input.Rules {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return fmt.Errorf("rules[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("rules[%d]: duplicate rule name %q", i, name)
		}
		seen[name] = struct{}{}

		if raw.Goal < 0 || raw.Goal > 1 {
			return fmt.Errorf("rules[%d] (%s): goal must be in [0, 1], got %v", i, name, raw.Goal)
		}
		if strings.TrimSpace(raw.Query) == "" {
			return fmt.Errorf("rules[%d] (%s): query is required", i, name)
		}

		cfg.Rules = append(cfg.Rules, schema.Rule{
			Name:        name,
			Description: strings.TrimSpace(raw.Description),
			Goal:        raw.Goal,
			Query:       raw.Query,
		})
	}
	return nil
}
