package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/runcost/runcost/internal/models"
	"github.com/runcost/runcost/pkg/utils"
)

// PrintResultsTable prints a formatted table of pricing results
func PrintResultsTable(w io.Writer, results []models.PricingResult, calcStartTime time.Time, calcDuration time.Duration) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No pricing results.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Calculated at %s (completed in %.2f seconds)\n",
		calcStartTime.Format("2006-01-02 15:04:05"),
		calcDuration.Seconds())

	fmt.Fprintln(tw, "TYPE\tCOUNT\tREGION\tCOMPUTE\tPLAN\tHOURS\tAWS/HR\tDBX/HR\tTOTAL/HR\tTOTAL/RUN\tNOTE")

	for _, result := range results {
		cfg := result.Config

		note := result.Message
		if note == "" {
			note = "-"
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			cfg.InstanceType,
			cfg.NumInstances,
			cfg.Region,
			cfg.ComputeType,
			cfg.Plan,
			cfg.HoursPerRun,
			utils.FormatCurrency(result.AWSCostPerHour),
			utils.FormatCurrency(result.DatabricksCostPerHour),
			utils.FormatCurrency(result.TotalCostPerHour),
			utils.FormatCurrency(result.TotalCostPerRun),
			note,
		)
	}

	tw.Flush()
}

// PrintTotalsSummary prints the aggregate cost figures across all results
func PrintTotalsSummary(w io.Writer, totals models.TotalCosts) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "\n## Totals")
	fmt.Fprintln(tw, "\tAWS\tDATABRICKS\tTOTAL")
	fmt.Fprintf(tw, "Per hour\t%s\t%s\t%s\n",
		utils.FormatCurrency(totals.AWSHourly),
		utils.FormatCurrency(totals.DatabricksHourly),
		utils.FormatCurrency(totals.TotalHourly))
	fmt.Fprintf(tw, "Per run\t%s\t%s\t%s\n",
		utils.FormatCurrency(totals.AWSPerRun),
		utils.FormatCurrency(totals.DatabricksPerRun),
		utils.FormatCurrency(totals.TotalPerRun))

	tw.Flush()
}
