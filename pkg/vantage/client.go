// Package vantage implements the infrastructure-pricing lookup against the
// Vantage API: instance type -> product -> on-demand Linux price point.
package vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/runcost/runcost/internal/logger"
	"github.com/runcost/runcost/pkg/pricing"
)

// Client queries the Vantage API for AWS on-demand instance pricing.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

// NewClient builds a client against baseURL authenticating with the given
// bearer token. Every request is bounded by timeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = 2
	httpClient.HTTPClient.Timeout = timeout

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

type product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type productsResponse struct {
	Products []product `json:"products"`
}

type productListResponse struct {
	Data []product `json:"data"`
}

// Amount is a pointer so a response missing the field stays
// distinguishable from a genuine zero price.
type priceResponse struct {
	Amount *float64 `json:"amount"`
}

type priceListResponse struct {
	Data []struct {
		InstanceType string `json:"instance_type"`
	} `json:"data"`
}

// HourlyRate returns the on-demand Linux hourly rate in USD for one
// instance of the given type in the given region. A missing product or
// price point wraps pricing.ErrNotFound; transport and decode failures are
// returned as distinct errors so the caller can tell the cases apart.
func (c *Client) HourlyRate(ctx context.Context, instanceType, region string) (float64, error) {
	productID, err := c.productID(ctx, instanceType)
	if err != nil {
		return 0, err
	}

	// Price-point identifiers use underscores where region codes use
	// hyphens, e.g. aws_ec2_m5d_8xlarge-us_east_1-on_demand-linux.
	pricePointID := fmt.Sprintf("%s-%s-on_demand-linux", productID, strings.ReplaceAll(region, "-", "_"))

	var price priceResponse
	path := fmt.Sprintf("/v2/products/%s/prices/%s", productID, pricePointID)
	if err := c.get(ctx, path, &price); err != nil {
		return 0, err
	}

	if price.Amount == nil {
		return 0, fmt.Errorf("vantage: no amount for price point %s: %w", pricePointID, pricing.ErrNotFound)
	}

	logger.Debugf("vantage: %s in %s priced at $%.4f/hr", instanceType, region, *price.Amount)
	return *price.Amount, nil
}

// productID resolves the Vantage product for an instance type by name
// match, taking the first candidate.
func (c *Client) productID(ctx context.Context, instanceType string) (string, error) {
	var products productsResponse
	path := "/v2/products?name=" + url.QueryEscape(instanceType)
	if err := c.get(ctx, path, &products); err != nil {
		return "", err
	}

	if len(products.Products) == 0 || products.Products[0].ID == "" {
		return "", fmt.Errorf("vantage: no product for instance type %q: %w", instanceType, pricing.ErrNotFound)
	}

	return products.Products[0].ID, nil
}

// AvailableInstanceTypes lists the distinct instance types Vantage prices
// for the EC2 product in a region. Callers fall back to the embedded
// reference catalog when this fails.
func (c *Client) AvailableInstanceTypes(ctx context.Context, region string) ([]string, error) {
	var products productListResponse
	if err := c.get(ctx, "/v2/products", &products); err != nil {
		return nil, err
	}

	var productID string
	for _, p := range products.Data {
		if p.Name == "Amazon EC2" || strings.Contains(strings.ToLower(p.Name), "ec2") {
			productID = p.ID
			break
		}
	}
	if productID == "" {
		return nil, fmt.Errorf("vantage: EC2 product not listed: %w", pricing.ErrNotFound)
	}

	var prices priceListResponse
	path := fmt.Sprintf("/v2/products/%s/prices?filter[region]=%s", productID, url.QueryEscape(region))
	if err := c.get(ctx, path, &prices); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var instanceTypes []string
	for _, item := range prices.Data {
		if item.InstanceType == "" || seen[item.InstanceType] {
			continue
		}
		seen[item.InstanceType] = true
		instanceTypes = append(instanceTypes, item.InstanceType)
	}

	if len(instanceTypes) == 0 {
		return nil, fmt.Errorf("vantage: no instance types priced in %s: %w", region, pricing.ErrNotFound)
	}

	return instanceTypes, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := retryablehttp.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("vantage: build request: %w", err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vantage: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("vantage: %s: %w", path, pricing.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vantage: unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("vantage: decode %s: %w", path, err)
	}

	return nil
}
