// Package inventory implements the fleet-inventory API client used to
// resolve cluster selectors into concrete cluster sets.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
)

// clustersPath is the inventory API endpoint for cluster searches.
const clustersPath = "/api/clusters_mgmt/v1/clusters"

// BearerSource provides the access token attached to inventory requests.
type BearerSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client talks to the fleet-inventory API.
type Client struct {
	baseURL string
	bearer  BearerSource
	client  *http.Client
}

var _ contract.InventoryClient = &Client{} // Compile-time check

// NewClient builds an inventory client for the given base URL.
func NewClient(baseURL string, bearer BearerSource, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, bearer: bearer, client: client}
}

// clusterItem mirrors one entry of the inventory search response.
type clusterItem struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ExternalID        string    `json:"external_id"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
}

// SearchClusters returns the clusters matching the selector expression.
// The selector syntax is owned by the inventory API and passed through
// verbatim. Items without an external ID cannot be queried for metrics and
// are skipped.
func (c *Client) SearchClusters(ctx context.Context, selector string) ([]schema.Cluster, error) {
	token, err := c.bearer.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot obtain inventory access token: %w", err)
	}

	reqURL := c.baseURL + clustersPath + "?search=" + url.QueryEscape(selector)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory query for selector %q failed: %w", selector, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &contract.InventoryQueryError{Selector: selector, Status: resp.StatusCode}
	}

	var payload struct {
		Items []clusterItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("cannot decode inventory response for selector %q: %w", selector, err)
	}

	clusters := make([]schema.Cluster, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ExternalID == "" {
			continue
		}
		clusters = append(clusters, schema.Cluster{
			ID:     item.ExternalID,
			Name:   item.Name,
			Labels: clusterLabels(item, time.Now()),
		})
	}
	return clusters, nil
}

// clusterLabels captures informational attributes at resolution time.
func clusterLabels(item clusterItem, now time.Time) map[string]string {
	labels := map[string]string{
		"id":          item.ID,
		"external_id": item.ExternalID,
	}
	if !item.CreationTimestamp.IsZero() {
		ageDays := int(now.Sub(item.CreationTimestamp).Hours() / 24)
		labels["age"] = strconv.Itoa(ageDays) + "d"
	}
	return labels
}
