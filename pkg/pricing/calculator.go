// Package pricing combines AWS infrastructure rates and Databricks
// platform rates into per-hour and per-run cost estimates.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/runcost/runcost/internal/logger"
	"github.com/runcost/runcost/internal/models"
)

// InfraProvider answers hourly infrastructure rates per instance type and
// region, in USD per instance.
type InfraProvider interface {
	HourlyRate(ctx context.Context, instanceType, region string) (float64, error)
}

// PlatformProvider answers hourly platform rates per instance type,
// workload category, plan and cloud backend, in USD per instance.
type PlatformProvider interface {
	HourlyRate(ctx context.Context, instanceType, computeType, plan, cloudProvider string) (float64, error)
}

// NotFoundPolicy decides what a missing rate becomes at the calculator
// boundary.
type NotFoundPolicy int

const (
	// PolicyZeroResult substitutes a zero rate and annotates the result
	// with an explanatory message.
	PolicyZeroResult NotFoundPolicy = iota

	// PolicyFail drops the result: CalculateInstancePricing returns an
	// error and batch calculations skip the entry.
	PolicyFail
)

// Calculator aggregates the two pricing providers. Each calculation is a
// stateless request/response round trip; the only mutable state is the
// call-stats counters.
type Calculator struct {
	infra    InfraProvider
	platform PlatformProvider

	// Not-found handling per provider. The defaults mirror the historical
	// behavior: a missing infrastructure price yields an all-zero result
	// with a message, a missing platform rate yields no result at all.
	infraNotFound    NotFoundPolicy
	platformNotFound NotFoundPolicy

	stats *CallStats
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithInfraNotFoundPolicy overrides the policy applied when the
// infrastructure provider has no rate.
func WithInfraNotFoundPolicy(p NotFoundPolicy) Option {
	return func(c *Calculator) { c.infraNotFound = p }
}

// WithPlatformNotFoundPolicy overrides the policy applied when the
// platform provider has no rate.
func WithPlatformNotFoundPolicy(p NotFoundPolicy) Option {
	return func(c *Calculator) { c.platformNotFound = p }
}

// ParseNotFoundPolicy maps the configuration strings "zero" and "fail"
// to a policy value.
func ParseNotFoundPolicy(s string) (NotFoundPolicy, error) {
	switch s {
	case "zero":
		return PolicyZeroResult, nil
	case "fail":
		return PolicyFail, nil
	default:
		return 0, fmt.Errorf("unknown not-found policy %q (want \"zero\" or \"fail\")", s)
	}
}

// NewCalculator wires the two providers into a calculator with the default
// not-found policies.
func NewCalculator(infra InfraProvider, platform PlatformProvider, opts ...Option) *Calculator {
	c := &Calculator{
		infra:            infra,
		platform:         platform,
		infraNotFound:    PolicyZeroResult,
		platformNotFound: PolicyFail,
		stats:            NewCallStats(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ValidateConfig checks a configuration against the documented
// constraints. It reports the first violated rule only and performs no
// network calls.
func (c *Calculator) ValidateConfig(cfg models.InstanceConfig) (bool, string) {
	if cfg.NumInstances <= 0 {
		return false, "Number of instances must be greater than 0"
	}

	if cfg.HoursPerRun <= 0 || cfg.HoursPerRun > models.MaxHoursPerRun {
		return false, "Hours per run must be between 0 and 168 (1 week)"
	}

	if cfg.InstanceType == "" {
		return false, "Instance type is required"
	}

	return true, ""
}

// CalculateInstancePricing prices a single configuration: infrastructure
// rate first, then platform rate, combined into hourly figures weighted by
// instance count and projected over the run duration.
//
// A missing rate is resolved by the per-provider not-found policy; with
// the defaults, a missing infrastructure price short-circuits into an
// all-zero result carrying a message, while a missing platform rate fails
// the calculation. Transport failures at either provider are logged and
// take the same policy branch as not-found.
func (c *Calculator) CalculateInstancePricing(ctx context.Context, cfg models.InstanceConfig) (*models.PricingResult, error) {
	if ok, reason := c.ValidateConfig(cfg); !ok {
		return nil, fmt.Errorf("invalid config for %q: %s", cfg.InstanceType, reason)
	}

	infraRate, err := c.infra.HourlyRate(ctx, cfg.InstanceType, cfg.Region)
	if err != nil {
		c.stats.RecordFailure(ProviderAWS)
		logLookupFailure(ProviderAWS, cfg.InstanceType, err)

		if c.infraNotFound == PolicyFail {
			return nil, fmt.Errorf("infrastructure rate for %s in %s: %w", cfg.InstanceType, cfg.Region, err)
		}

		// All six cost fields are zero, not just the infrastructure pair:
		// without an infrastructure price the platform lookup is skipped
		// entirely and the result is an explicit "unpriced" marker.
		return zeroResult(cfg, fmt.Sprintf("No AWS price found for %s in %s. All costs set to 0.",
			cfg.InstanceType, cfg.Region)), nil
	}
	c.stats.RecordSuccess(ProviderAWS)

	platformRate, err := c.platform.HourlyRate(ctx, cfg.InstanceType, cfg.ComputeType, cfg.Plan, cfg.CloudProvider)
	if err != nil {
		c.stats.RecordFailure(ProviderDatabricks)
		logLookupFailure(ProviderDatabricks, cfg.InstanceType, err)

		if c.platformNotFound == PolicyFail {
			return nil, fmt.Errorf("platform rate for %s (%s, %s): %w", cfg.InstanceType, cfg.ComputeType, cfg.Plan, err)
		}

		platformRate = 0
		return assembleResult(cfg, infraRate, platformRate,
			fmt.Sprintf("No Databricks rate found for %s (%s, %s). Platform cost set to 0.",
				cfg.InstanceType, cfg.ComputeType, cfg.Plan)), nil
	}
	c.stats.RecordSuccess(ProviderDatabricks)

	return assembleResult(cfg, infraRate, platformRate, ""), nil
}

// CalculateMultipleInstances prices each configuration in input order.
// Entries that fail validation or calculation are logged and dropped;
// partial success is intended.
func (c *Calculator) CalculateMultipleInstances(ctx context.Context, configs []models.InstanceConfig) []models.PricingResult {
	results := make([]models.PricingResult, 0, len(configs))

	for _, cfg := range configs {
		result, err := c.CalculateInstancePricing(ctx, cfg)
		if err != nil {
			logger.Warnf("skipping %s: %v", cfg.InstanceType, err)
			continue
		}
		results = append(results, *result)
	}

	return results
}

// GetTotalCosts sums the six cost figures across the results. An empty
// input yields all zeros.
func (c *Calculator) GetTotalCosts(results []models.PricingResult) models.TotalCosts {
	var totals models.TotalCosts

	for _, r := range results {
		totals.AWSHourly += r.AWSCostPerHour
		totals.DatabricksHourly += r.DatabricksCostPerHour
		totals.TotalHourly += r.TotalCostPerHour
		totals.AWSPerRun += r.AWSCostPerRun
		totals.DatabricksPerRun += r.DatabricksCostPerRun
		totals.TotalPerRun += r.TotalCostPerRun
	}

	return totals
}

// Stats returns a snapshot of per-provider lookup counters.
func (c *Calculator) Stats() map[string]map[string]int {
	return c.stats.Snapshot()
}

func assembleResult(cfg models.InstanceConfig, infraRate, platformRate float64, message string) *models.PricingResult {
	count := float64(cfg.NumInstances)

	awsHourly := infraRate * count
	databricksHourly := platformRate * count
	totalHourly := awsHourly + databricksHourly

	return &models.PricingResult{
		AWSCostPerHour:        awsHourly,
		DatabricksCostPerHour: databricksHourly,
		TotalCostPerHour:      totalHourly,
		AWSCostPerRun:         awsHourly * cfg.HoursPerRun,
		DatabricksCostPerRun:  databricksHourly * cfg.HoursPerRun,
		TotalCostPerRun:       totalHourly * cfg.HoursPerRun,
		TotalHoursPerRun:      cfg.HoursPerRun,
		Config:                cfg,
		Message:               message,
	}
}

func zeroResult(cfg models.InstanceConfig, message string) *models.PricingResult {
	return &models.PricingResult{
		TotalHoursPerRun: cfg.HoursPerRun,
		Config:           cfg,
		Message:          message,
	}
}

func logLookupFailure(provider, instanceType string, err error) {
	if errors.Is(err, ErrNotFound) {
		logger.Warnf("%s: no rate for %s: %v", provider, instanceType, err)
		return
	}
	logger.Errorf("%s: lookup failed for %s: %v", provider, instanceType, err)
}
