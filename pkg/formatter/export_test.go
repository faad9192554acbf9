package formatter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runcost/runcost/internal/models"
)

func sampleResults() []models.PricingResult {
	cfg := models.NewInstanceConfig("m5d.8xlarge", 2, 4.0)

	return []models.PricingResult{
		{
			AWSCostPerHour:        5.0,
			DatabricksCostPerHour: 1.9,
			TotalCostPerHour:      6.9,
			AWSCostPerRun:         20.0,
			DatabricksCostPerRun:  7.6,
			TotalCostPerRun:       27.6,
			TotalHoursPerRun:      4.0,
			Config:                cfg,
		},
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, ExportCSV(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "instance_type")
	assert.Contains(t, lines[0], "total_cost_per_run")
	assert.Contains(t, lines[1], "m5d.8xlarge")
	assert.Contains(t, lines[1], "27.6")
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, ExportJSON(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)

	assert.Equal(t, "m5d.8xlarge", rows[0]["instance_type"])
	assert.InDelta(t, 6.9, rows[0]["total_cost_per_hour"].(float64), 1e-9)
	assert.InDelta(t, 27.6, rows[0]["total_cost_per_run"].(float64), 1e-9)
}

func TestPrintResultsTable(t *testing.T) {
	var buf bytes.Buffer
	PrintResultsTable(&buf, sampleResults(), time.Now(), time.Second)

	out := buf.String()
	assert.Contains(t, out, "m5d.8xlarge")
	assert.Contains(t, out, "TOTAL/RUN")
	assert.Contains(t, out, "$27.60")
}

func TestPrintResultsTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintResultsTable(&buf, nil, time.Now(), time.Second)

	assert.Contains(t, buf.String(), "No pricing results.")
}

func TestPrintTotalsSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintTotalsSummary(&buf, models.TotalCosts{
		AWSHourly:        10,
		DatabricksHourly: 3.8,
		TotalHourly:      13.8,
		AWSPerRun:        40,
		DatabricksPerRun: 15.2,
		TotalPerRun:      55.2,
	})

	out := buf.String()
	assert.Contains(t, out, "Totals")
	assert.Contains(t, out, "$55.20")
}

func TestPrintProviderStats(t *testing.T) {
	var buf bytes.Buffer
	PrintProviderStats(&buf, map[string]map[string]int{
		"AWS (Vantage)": {"success": 3, "failure": 1},
	})

	out := buf.String()
	assert.Contains(t, out, "AWS (Vantage)")
	assert.Contains(t, out, "75.0%")
}

func TestPrintProviderStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintProviderStats(&buf, nil)

	assert.Empty(t, buf.String())
}
