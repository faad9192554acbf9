package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runcost/runcost/internal/models"
)

// Environment variable carrying the Vantage API credential.
const VantageTokenEnv = "VANTAGE_API_TOKEN"

// ComputeTypes lists the Databricks workload categories accepted by the
// pricing table.
var ComputeTypes = []string{
	"Jobs Compute",
	"All-Purpose Compute",
	"SQL Compute",
	"ML Runtime",
}

// Plans lists the Databricks subscription tiers.
var Plans = []string{
	"Standard",
	"Premium",
	"Enterprise",
}

// CloudProviders lists the cloud backends with a Databricks pricing
// endpoint. GCP is present for the pricing table only; instance pricing
// via Vantage currently covers AWS.
var CloudProviders = []string{"AWS", "GCP"}

// Config holds everything the pricing clients and calculator need. It is
// built from defaults, optionally overlaid with a YAML file, then with
// environment variables, and passed explicitly into constructors.
type Config struct {
	// VantageAPIToken is the bearer credential for the Vantage API. It is
	// a caller-side precondition: Validate rejects an empty token before
	// any client is constructed.
	VantageAPIToken string `yaml:"vantage_api_token"`

	// VantageBaseURL is the Vantage API endpoint.
	VantageBaseURL string `yaml:"vantage_base_url"`

	// DatabricksPricingURLs maps a cloud provider to its public pricing
	// table endpoint.
	DatabricksPricingURLs map[string]string `yaml:"databricks_pricing_urls"`

	// RequestTimeoutSeconds bounds each outbound HTTP request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// CacheTTLMinutes controls how long a fetched Databricks pricing table
	// is reused before refetching.
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`

	DefaultRegion        string `yaml:"default_region"`
	DefaultComputeType   string `yaml:"default_compute_type"`
	DefaultPlan          string `yaml:"default_plan"`
	DefaultCloudProvider string `yaml:"default_cloud_provider"`

	// InfraNotFound and PlatformNotFound select how a missing rate from
	// the respective provider is handled: "zero" substitutes a zero rate
	// with a note, "fail" drops the result. Empty keeps the built-in
	// default (zero for infrastructure, fail for platform).
	InfraNotFound    string `yaml:"infra_not_found"`
	PlatformNotFound string `yaml:"platform_not_found"`
}

// DefaultConfig returns a Config populated with the public endpoints and
// sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		VantageBaseURL: "https://api.vantage.sh",
		DatabricksPricingURLs: map[string]string{
			"AWS": "https://www.databricks.com/en-pricing-assets/data/pricing/AWS.json",
			"GCP": "https://www.databricks.com/en-pricing-assets/data/pricing/GCP.json",
		},
		RequestTimeoutSeconds: 10,
		CacheTTLMinutes:       60,
		DefaultRegion:         models.DefaultRegion,
		DefaultComputeType:    models.DefaultComputeType,
		DefaultPlan:           models.DefaultPlan,
		DefaultCloudProvider:  models.DefaultCloudProvider,
	}
}

// Load builds a Config from defaults, the optional YAML file at path, and
// environment variables, in that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if token := os.Getenv(VantageTokenEnv); token != "" {
		cfg.VantageAPIToken = token
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 10
	}
	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = 60
	}

	return cfg, nil
}

// Validate checks the preconditions the CLI must satisfy before building
// clients. The calculator itself never inspects credentials.
func (c *Config) Validate() error {
	if c.VantageAPIToken == "" {
		return fmt.Errorf("%s is not set; a Vantage API token is required", VantageTokenEnv)
	}
	if c.VantageBaseURL == "" {
		return fmt.Errorf("vantage_base_url must not be empty")
	}
	if len(c.DatabricksPricingURLs) == 0 {
		return fmt.Errorf("databricks_pricing_urls must not be empty")
	}
	return nil
}

// IsSupportedComputeType reports whether the compute type is one the
// Databricks pricing table knows about.
func IsSupportedComputeType(computeType string) bool {
	return contains(ComputeTypes, computeType)
}

// IsSupportedPlan reports whether the plan is a known subscription tier.
func IsSupportedPlan(plan string) bool {
	return contains(Plans, plan)
}

// IsSupportedCloudProvider reports whether a pricing endpoint exists for
// the cloud provider.
func IsSupportedCloudProvider(cloud string) bool {
	return contains(CloudProviders, cloud)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
