package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// PrintProviderStats prints the statistics of pricing provider calls
func PrintProviderStats(w io.Writer, stats map[string]map[string]int) {
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## Pricing Provider Call Statistics")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tCALLS\tSUCCESS\tFAILURE\tSUCCESS RATE")

	providers := make([]string, 0, len(stats))
	for provider := range stats {
		providers = append(providers, provider)
	}
	sort.Strings(providers)

	for _, provider := range providers {
		success := stats[provider]["success"]
		failure := stats[provider]["failure"]
		total := success + failure

		successRate := 0.0
		if total > 0 {
			successRate = float64(success) / float64(total) * 100.0
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\n",
			provider,
			total,
			success,
			failure,
			successRate,
		)
	}

	tw.Flush()
}
