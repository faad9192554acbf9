package databricks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runcost/runcost/pkg/pricing"
)

const testTable = `[
	{"instance":"m5d.8xlarge","cloud":"AWS","compute":"Jobs Compute","compute_label":"Jobs","plan":"Standard","baserate":"0.40","dburate":"0.55","hourrate":"0.95"},
	{"instance":"m5d.8xlarge","cloud":"AWS","compute":"Jobs Compute","compute_label":"Jobs","plan":"Premium","baserate":0.40,"dburate":0.80,"hourrate":1.20},
	{"instance":"broken.type","cloud":"AWS","compute":"Jobs Compute","compute_label":"Jobs","plan":"Standard","hourrate":"n/a"}
]`

func newTestClient(server *httptest.Server, ttl time.Duration) *Client {
	return NewClient(map[string]string{"AWS": server.URL}, 2*time.Second, ttl)
}

func TestHourlyRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testTable)
	}))
	defer server.Close()

	client := newTestClient(server, time.Minute)

	rate, err := client.HourlyRate(context.Background(), "m5d.8xlarge", "Jobs Compute", "Standard", "AWS")
	require.NoError(t, err)
	assert.InDelta(t, 0.95, rate, 1e-9)

	// Numeric rate fields parse the same as quoted ones.
	rate, err = client.HourlyRate(context.Background(), "m5d.8xlarge", "Jobs Compute", "Premium", "AWS")
	require.NoError(t, err)
	assert.InDelta(t, 1.20, rate, 1e-9)
}

func TestHourlyRateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testTable)
	}))
	defer server.Close()

	_, err := newTestClient(server, time.Minute).HourlyRate(context.Background(),
		"m5d.8xlarge", "SQL Compute", "Standard", "AWS")
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrNotFound)
}

func TestHourlyRateMalformedRateParsesToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testTable)
	}))
	defer server.Close()

	rate, err := newTestClient(server, time.Minute).HourlyRate(context.Background(),
		"broken.type", "Jobs Compute", "Standard", "AWS")
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestPricingTableCaching(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		fmt.Fprint(w, testTable)
	}))
	defer server.Close()

	client := newTestClient(server, time.Minute)

	_, err := client.HourlyRate(context.Background(), "m5d.8xlarge", "Jobs Compute", "Standard", "AWS")
	require.NoError(t, err)
	_, err = client.HourlyRate(context.Background(), "m5d.8xlarge", "Jobs Compute", "Premium", "AWS")
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&requests), "second lookup should hit the cache")
}

func TestPricingTableUnknownCloud(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testTable)
	}))
	defer server.Close()

	_, err := newTestClient(server, time.Minute).PricingTable(context.Background(), "Azure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pricing endpoint")
}

func TestPricingTableProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server, time.Minute).PricingTable(context.Background(), "AWS")
	require.Error(t, err)
	assert.NotErrorIs(t, err, pricing.ErrNotFound)
}

func TestRateUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`"0.95"`, 0.95},
		{`1.2`, 1.2},
		{`"n/a"`, 0},
		{`null`, 0},
		{`""`, 0},
	}

	for _, tt := range tests {
		var r Rate
		require.NoError(t, r.UnmarshalJSON([]byte(tt.raw)))
		assert.InDelta(t, tt.want, float64(r), 1e-9, "raw %s", tt.raw)
	}
}
