package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.vantage.sh", cfg.VantageBaseURL)
	assert.Contains(t, cfg.DatabricksPricingURLs, "AWS")
	assert.Contains(t, cfg.DatabricksPricingURLs, "GCP")
	assert.Equal(t, "us-east-1", cfg.DefaultRegion)
	assert.Equal(t, "Jobs Compute", cfg.DefaultComputeType)
	assert.Equal(t, "Standard", cfg.DefaultPlan)
	assert.Equal(t, "AWS", cfg.DefaultCloudProvider)
	assert.Equal(t, 10, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 60, cfg.CacheTTLMinutes)
}

func TestLoadAppliesEnvToken(t *testing.T) {
	t.Setenv(VantageTokenEnv, "tok-from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tok-from-env", cfg.VantageAPIToken)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileOverlay(t *testing.T) {
	t.Setenv(VantageTokenEnv, "")

	path := filepath.Join(t.TempDir(), "runcost.yaml")
	content := []byte(`
vantage_api_token: tok-from-file
default_plan: Premium
request_timeout_seconds: 3
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-from-file", cfg.VantageAPIToken)
	assert.Equal(t, "Premium", cfg.DefaultPlan)
	assert.Equal(t, 3, cfg.RequestTimeoutSeconds)
	// Untouched fields keep their defaults.
	assert.Equal(t, "us-east-1", cfg.DefaultRegion)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(VantageTokenEnv, "tok-from-env")

	path := filepath.Join(t.TempDir(), "runcost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vantage_api_token: tok-from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-from-env", cfg.VantageAPIToken)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadClampsBadDurations(t *testing.T) {
	t.Setenv(VantageTokenEnv, "tok")

	path := filepath.Join(t.TempDir(), "runcost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("request_timeout_seconds: -5\ncache_ttl_minutes: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 60, cfg.CacheTTLMinutes)
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), VantageTokenEnv)
}

func TestSupportedEnumerations(t *testing.T) {
	assert.True(t, IsSupportedComputeType("Jobs Compute"))
	assert.False(t, IsSupportedComputeType("Quantum Compute"))
	assert.True(t, IsSupportedPlan("Enterprise"))
	assert.False(t, IsSupportedPlan("Free"))
	assert.True(t, IsSupportedCloudProvider("AWS"))
	assert.False(t, IsSupportedCloudProvider("Azure"))
}
