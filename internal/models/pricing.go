package models

// Defaults applied by NewInstanceConfig. The region must be one of the
// supported regions; the compute type and plan must match the Databricks
// pricing table vocabulary exactly.
const (
	DefaultRegion        = "us-east-1"
	DefaultComputeType   = "Jobs Compute"
	DefaultPlan          = "Standard"
	DefaultCloudProvider = "AWS"

	// MaxHoursPerRun caps a single run duration at one week.
	MaxHoursPerRun = 168.0
)

// InstanceConfig describes one cluster run to price: which machine shape,
// how many of them, and for how long. It is built once per request and
// never mutated afterwards.
type InstanceConfig struct {
	InstanceType  string  `json:"instance_type" yaml:"instance_type"`
	NumInstances  int     `json:"num_instances" yaml:"num_instances"`
	HoursPerRun   float64 `json:"hours_per_run" yaml:"hours_per_run"`
	Region        string  `json:"region" yaml:"region"`
	ComputeType   string  `json:"compute_type" yaml:"compute_type"`
	Plan          string  `json:"plan" yaml:"plan"`
	CloudProvider string  `json:"cloud_provider" yaml:"cloud_provider"`
}

// NewInstanceConfig returns an InstanceConfig with the default region,
// compute type, plan and cloud provider filled in.
func NewInstanceConfig(instanceType string, numInstances int, hoursPerRun float64) InstanceConfig {
	return InstanceConfig{
		InstanceType:  instanceType,
		NumInstances:  numInstances,
		HoursPerRun:   hoursPerRun,
		Region:        DefaultRegion,
		ComputeType:   DefaultComputeType,
		Plan:          DefaultPlan,
		CloudProvider: DefaultCloudProvider,
	}
}

// PricingResult holds the combined AWS and Databricks cost figures for a
// single configuration. TotalCostPerHour is always the sum of the two
// hourly components, and each per-run figure is its hourly counterpart
// multiplied by TotalHoursPerRun.
type PricingResult struct {
	AWSCostPerHour        float64        `json:"aws_cost_per_hour"`
	DatabricksCostPerHour float64        `json:"databricks_cost_per_hour"`
	TotalCostPerHour      float64        `json:"total_cost_per_hour"`
	AWSCostPerRun         float64        `json:"aws_cost_per_run"`
	DatabricksCostPerRun  float64        `json:"databricks_cost_per_run"`
	TotalCostPerRun       float64        `json:"total_cost_per_run"`
	TotalHoursPerRun      float64        `json:"total_hours_per_run"`
	Config                InstanceConfig `json:"instance_config"`

	// Message carries a human-readable note, e.g. when a missing AWS price
	// was substituted with zero.
	Message string `json:"message,omitempty"`
}

// TotalCosts aggregates cost figures across a set of pricing results.
type TotalCosts struct {
	AWSHourly        float64 `json:"aws_hourly"`
	DatabricksHourly float64 `json:"databricks_hourly"`
	TotalHourly      float64 `json:"total_hourly"`
	AWSPerRun        float64 `json:"aws_per_run"`
	DatabricksPerRun float64 `json:"databricks_per_run"`
	TotalPerRun      float64 `json:"total_per_run"`
}
