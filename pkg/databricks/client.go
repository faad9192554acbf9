// Package databricks implements the platform-pricing lookup against the
// published Databricks pricing tables, one JSON endpoint per cloud backend.
package databricks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/runcost/runcost/internal/logger"
	"github.com/runcost/runcost/pkg/pricing"
)

// Rate parses rate fields that arrive either as JSON numbers or as quoted
// strings. A malformed value decodes to zero rather than failing the whole
// table.
type Rate float64

func (r *Rate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*r = 0
		return nil
	}
	*r = Rate(f)
	return nil
}

// RateEntry is one row of the published pricing table.
type RateEntry struct {
	Instance     string `json:"instance"`
	Cloud        string `json:"cloud"`
	Compute      string `json:"compute"`
	ComputeLabel string `json:"compute_label"`
	Plan         string `json:"plan"`
	BaseRate     Rate   `json:"baserate"`
	DBURate      Rate   `json:"dburate"`
	HourRate     Rate   `json:"hourrate"`
}

// Client fetches the pricing tables and answers per-instance rate lookups
// against them. Fetched tables are kept in an in-memory TTL cache; the
// table is small and changes rarely, so lookups scan it linearly.
type Client struct {
	urls  map[string]string
	http  *retryablehttp.Client
	cache *gocache.Cache
}

// NewClient builds a client for the given cloud-provider to pricing-URL
// map. A fetched table is reused for ttl before being refetched.
func NewClient(urls map[string]string, timeout, ttl time.Duration) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = 2
	httpClient.HTTPClient.Timeout = timeout

	return &Client{
		urls:  urls,
		http:  httpClient,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// PricingTable returns the pricing entries for a cloud provider, serving
// from cache when a recent fetch exists.
func (c *Client) PricingTable(ctx context.Context, cloudProvider string) ([]RateEntry, error) {
	if cached, ok := c.cache.Get(cloudProvider); ok {
		logger.Debugf("databricks: serving %s pricing table from cache", cloudProvider)
		return cached.([]RateEntry), nil
	}

	endpoint, ok := c.urls[cloudProvider]
	if !ok {
		return nil, fmt.Errorf("databricks: no pricing endpoint for cloud provider %q", cloudProvider)
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("databricks: build request: %w", err)
	}
	req = req.WithContext(ctx)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("databricks: fetch %s pricing table: %w", cloudProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("databricks: unexpected status %d fetching %s pricing table", resp.StatusCode, cloudProvider)
	}

	var entries []RateEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("databricks: decode %s pricing table: %w", cloudProvider, err)
	}

	c.cache.Set(cloudProvider, entries, gocache.DefaultExpiration)
	logger.Infof("databricks: fetched %d pricing entries for %s", len(entries), cloudProvider)

	return entries, nil
}

// HourlyRate returns the hourly platform rate in USD for the first entry
// matching the (instance, compute, plan) triple exactly. The upstream
// table does not guarantee the triple is unique; first match wins. A
// missing entry wraps pricing.ErrNotFound.
func (c *Client) HourlyRate(ctx context.Context, instanceType, computeType, plan, cloudProvider string) (float64, error) {
	entries, err := c.PricingTable(ctx, cloudProvider)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if entry.Instance == instanceType && entry.Compute == computeType && entry.Plan == plan {
			logger.Debugf("databricks: matched %s/%s/%s at $%.4f/hr",
				instanceType, computeType, plan, float64(entry.HourRate))
			return float64(entry.HourRate), nil
		}
	}

	return 0, fmt.Errorf("databricks: no rate for %s/%s/%s on %s: %w",
		instanceType, computeType, plan, cloudProvider, pricing.ErrNotFound)
}
