package formatter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/runcost/runcost/internal/models"
)

// exportRow flattens a pricing result and its originating configuration
// into one record for file export.
type exportRow struct {
	InstanceType          string  `csv:"instance_type" json:"instance_type"`
	NumInstances          int     `csv:"num_instances" json:"num_instances"`
	Region                string  `csv:"region" json:"region"`
	ComputeType           string  `csv:"compute_type" json:"compute_type"`
	Plan                  string  `csv:"plan" json:"plan"`
	HoursPerRun           float64 `csv:"hours_per_run" json:"hours_per_run"`
	TotalHoursPerRun      float64 `csv:"total_hours_per_run" json:"total_hours_per_run"`
	AWSCostPerHour        float64 `csv:"aws_cost_per_hour" json:"aws_cost_per_hour"`
	DatabricksCostPerHour float64 `csv:"databricks_cost_per_hour" json:"databricks_cost_per_hour"`
	TotalCostPerHour      float64 `csv:"total_cost_per_hour" json:"total_cost_per_hour"`
	AWSCostPerRun         float64 `csv:"aws_cost_per_run" json:"aws_cost_per_run"`
	DatabricksCostPerRun  float64 `csv:"databricks_cost_per_run" json:"databricks_cost_per_run"`
	TotalCostPerRun       float64 `csv:"total_cost_per_run" json:"total_cost_per_run"`
}

func toExportRows(results []models.PricingResult) []exportRow {
	rows := make([]exportRow, 0, len(results))

	for _, r := range results {
		cfg := r.Config
		rows = append(rows, exportRow{
			InstanceType:          cfg.InstanceType,
			NumInstances:          cfg.NumInstances,
			Region:                cfg.Region,
			ComputeType:           cfg.ComputeType,
			Plan:                  cfg.Plan,
			HoursPerRun:           cfg.HoursPerRun,
			TotalHoursPerRun:      r.TotalHoursPerRun,
			AWSCostPerHour:        r.AWSCostPerHour,
			DatabricksCostPerHour: r.DatabricksCostPerHour,
			TotalCostPerHour:      r.TotalCostPerHour,
			AWSCostPerRun:         r.AWSCostPerRun,
			DatabricksCostPerRun:  r.DatabricksCostPerRun,
			TotalCostPerRun:       r.TotalCostPerRun,
		})
	}

	return rows
}

// ExportCSV writes the results to path as CSV, one row per result.
func ExportCSV(path string, results []models.PricingResult) error {
	data, err := csvutil.Marshal(toExportRows(results))
	if err != nil {
		return fmt.Errorf("marshal results to CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write CSV file: %w", err)
	}

	return nil
}

// ExportJSON writes the results to path as an indented JSON array.
func ExportJSON(path string, results []models.PricingResult) error {
	data, err := json.MarshalIndent(toExportRows(results), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON file: %w", err)
	}

	return nil
}
