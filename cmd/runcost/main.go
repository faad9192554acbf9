package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runcost/runcost/internal/catalog"
	"github.com/runcost/runcost/internal/config"
	"github.com/runcost/runcost/internal/logger"
	"github.com/runcost/runcost/internal/models"
	"github.com/runcost/runcost/internal/version"
	"github.com/runcost/runcost/pkg/databricks"
	"github.com/runcost/runcost/pkg/formatter"
	"github.com/runcost/runcost/pkg/pricing"
	"github.com/runcost/runcost/pkg/utils"
	"github.com/runcost/runcost/pkg/vantage"
)

var (
	instanceType  string
	numInstances  int
	hoursPerRun   float64
	region        string
	computeType   string
	plan          string
	cloudProvider string

	batchFile      string
	configFile     string
	exportCSVPath  string
	exportJSONPath string

	listInstances bool
	showVersion   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "runcost",
		Short: "Estimate combined AWS and Databricks costs for cluster runs",
		Long: `runcost estimates what a cluster run costs by combining AWS on-demand
instance pricing (via the Vantage API) with Databricks platform rates
(from the published pricing tables) into per-hour and per-run totals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version.Get().Short())
				return nil
			}

			if listInstances {
				printInstanceTypes(cmd.Context())
				return nil
			}

			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVarP(&instanceType, "instance-type", "t", "", "EC2 instance type to price (e.g. m5d.8xlarge)")
	rootCmd.Flags().IntVarP(&numInstances, "num-instances", "n", 1, "Number of instances in the cluster")
	rootCmd.Flags().Float64VarP(&hoursPerRun, "hours", "H", 1.0, "Run duration in hours (max 168)")
	rootCmd.Flags().StringVarP(&region, "region", "r", "", "AWS region (default from config)")
	rootCmd.Flags().StringVarP(&computeType, "compute-type", "c", "", "Databricks compute type (default from config)")
	rootCmd.Flags().StringVarP(&plan, "plan", "p", "", "Databricks plan (default from config)")
	rootCmd.Flags().StringVar(&cloudProvider, "cloud", "", "Cloud provider backing the workspace (default from config)")

	rootCmd.Flags().StringVarP(&batchFile, "batch", "f", "", "YAML file with a list of configurations to price")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to a runcost config file")
	rootCmd.Flags().StringVar(&exportCSVPath, "export-csv", "", "Write results to a CSV file")
	rootCmd.Flags().StringVar(&exportJSONPath, "export-json", "", "Write results to a JSON file")

	rootCmd.Flags().BoolVarP(&listInstances, "list-instances", "l", false, "List known instance types by category")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := policyOptions(cfg)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	infra := vantage.NewClient(cfg.VantageBaseURL, cfg.VantageAPIToken, timeout)
	platform := databricks.NewClient(cfg.DatabricksPricingURLs, timeout,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute)
	calc := pricing.NewCalculator(infra, platform, opts...)

	configs, err := collectConfigs(cfg)
	if err != nil {
		return err
	}

	warnUnknownInputs(configs)

	calcStartTime := time.Now()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Fetching pricing data ..."
	s.Start()

	var results []models.PricingResult
	var calcErr error

	if batchFile != "" {
		results = calc.CalculateMultipleInstances(ctx, configs)
	} else {
		var result *models.PricingResult
		result, calcErr = calc.CalculateInstancePricing(ctx, configs[0])
		if calcErr == nil {
			results = []models.PricingResult{*result}
		}
	}

	calcDuration := time.Since(calcStartTime)
	s.FinalMSG = fmt.Sprintf("✓ [%d of %d configurations priced] Completed in %.2f seconds\n",
		len(results), len(configs), calcDuration.Seconds())
	s.Stop()

	if calcErr != nil {
		return calcErr
	}

	formatter.PrintResultsTable(os.Stdout, results, calcStartTime, calcDuration)
	if len(results) > 1 {
		formatter.PrintTotalsSummary(os.Stdout, calc.GetTotalCosts(results))
	}
	formatter.PrintProviderStats(os.Stdout, calc.Stats())

	if exportCSVPath != "" {
		if err := formatter.ExportCSV(exportCSVPath, results); err != nil {
			return err
		}
		logger.Infof("exported %d results to %s", len(results), exportCSVPath)
	}
	if exportJSONPath != "" {
		if err := formatter.ExportJSON(exportJSONPath, results); err != nil {
			return err
		}
		logger.Infof("exported %d results to %s", len(results), exportJSONPath)
	}

	return nil
}

// policyOptions translates the configured not-found handling into
// calculator options. Unset fields keep the calculator defaults.
func policyOptions(cfg *config.Config) ([]pricing.Option, error) {
	var opts []pricing.Option

	if cfg.InfraNotFound != "" {
		p, err := pricing.ParseNotFoundPolicy(cfg.InfraNotFound)
		if err != nil {
			return nil, fmt.Errorf("infra_not_found: %w", err)
		}
		opts = append(opts, pricing.WithInfraNotFoundPolicy(p))
	}

	if cfg.PlatformNotFound != "" {
		p, err := pricing.ParseNotFoundPolicy(cfg.PlatformNotFound)
		if err != nil {
			return nil, fmt.Errorf("platform_not_found: %w", err)
		}
		opts = append(opts, pricing.WithPlatformNotFoundPolicy(p))
	}

	return opts, nil
}

// collectConfigs builds the list of configurations to price, either from
// the batch file or from the single-run flags.
func collectConfigs(cfg *config.Config) ([]models.InstanceConfig, error) {
	if batchFile != "" {
		return loadBatchConfigs(batchFile, cfg)
	}

	if instanceType == "" {
		return nil, fmt.Errorf("either --instance-type or --batch is required")
	}

	single := models.InstanceConfig{
		InstanceType:  instanceType,
		NumInstances:  numInstances,
		HoursPerRun:   hoursPerRun,
		Region:        region,
		ComputeType:   computeType,
		Plan:          plan,
		CloudProvider: cloudProvider,
	}
	applyConfigDefaults(&single, cfg)

	if !utils.IsValidRegion(single.Region) {
		return nil, fmt.Errorf("unsupported region %q", single.Region)
	}

	return []models.InstanceConfig{single}, nil
}

type batchFileSpec struct {
	Configs []models.InstanceConfig `yaml:"configs"`
}

// loadBatchConfigs reads a YAML list of configurations, filling defaults
// per entry. Validation happens per entry during calculation so that one
// bad entry does not abort the batch.
func loadBatchConfigs(path string, cfg *config.Config) ([]models.InstanceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var spec batchFileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}

	if len(spec.Configs) == 0 {
		return nil, fmt.Errorf("batch file %s contains no configurations", path)
	}

	for i := range spec.Configs {
		applyConfigDefaults(&spec.Configs[i], cfg)
	}

	return spec.Configs, nil
}

func applyConfigDefaults(c *models.InstanceConfig, cfg *config.Config) {
	if c.Region == "" {
		c.Region = cfg.DefaultRegion
	}
	if c.ComputeType == "" {
		c.ComputeType = cfg.DefaultComputeType
	}
	if c.Plan == "" {
		c.Plan = cfg.DefaultPlan
	}
	if c.CloudProvider == "" {
		c.CloudProvider = cfg.DefaultCloudProvider
	}
}

// warnUnknownInputs flags inputs the reference data does not recognize.
// The pricing sources are the authority, so these are warnings only.
func warnUnknownInputs(configs []models.InstanceConfig) {
	for _, c := range configs {
		for _, warning := range configWarnings(c) {
			logger.Warnf("%s", warning)
		}
	}
}

// configWarnings collects advisory problems with one configuration. Batch
// entries are not rejected for these, but an unsupported region or unknown
// instance type usually ends in an unpriced row, so call it out up front.
func configWarnings(c models.InstanceConfig) []string {
	var warnings []string

	if !catalog.IsKnown(c.InstanceType) {
		warnings = append(warnings, fmt.Sprintf("instance type %q is not in the reference catalog; pricing may not exist", c.InstanceType))
	}
	if !utils.IsValidRegion(c.Region) {
		warnings = append(warnings, fmt.Sprintf("region %q is not in the supported region list", c.Region))
	}
	if !config.IsSupportedComputeType(c.ComputeType) {
		warnings = append(warnings, fmt.Sprintf("compute type %q is not a known Databricks compute type", c.ComputeType))
	}
	if !config.IsSupportedPlan(c.Plan) {
		warnings = append(warnings, fmt.Sprintf("plan %q is not a known Databricks plan", c.Plan))
	}
	if !config.IsSupportedCloudProvider(c.CloudProvider) {
		warnings = append(warnings, fmt.Sprintf("cloud provider %q has no pricing endpoint", c.CloudProvider))
	}

	return warnings
}

// printInstanceTypes lists instance types by category, preferring the
// live Vantage listing when a token is configured and falling back to the
// embedded reference catalog.
func printInstanceTypes(ctx context.Context) {
	types, source := listAvailableTypes(ctx)
	fmt.Printf("Known instance types (%s):\n", source)

	categories := make(map[string][]string)
	for _, t := range types {
		category := catalog.Categorize(t)
		categories[category] = append(categories[category], t)
	}

	for _, name := range catalog.CategoryNames {
		group := categories[name]
		if len(group) == 0 {
			continue
		}

		fmt.Printf("\n%s:\n", name)
		for _, t := range group {
			fmt.Printf("  %s\n", t)
		}
	}
}

func listAvailableTypes(ctx context.Context) ([]string, string) {
	cfg, err := config.Load(configFile)
	if err != nil || cfg.VantageAPIToken == "" {
		return catalog.InstanceTypes(), "reference catalog"
	}

	lookupRegion := region
	if lookupRegion == "" {
		lookupRegion = cfg.DefaultRegion
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	client := vantage.NewClient(cfg.VantageBaseURL, cfg.VantageAPIToken, timeout)

	types, err := client.AvailableInstanceTypes(ctx, lookupRegion)
	if err != nil {
		logger.Warnf("live instance listing failed, using reference catalog: %v", err)
		return catalog.InstanceTypes(), "reference catalog"
	}

	sort.Strings(types)
	return types, "Vantage, " + lookupRegion
}
