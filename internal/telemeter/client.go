// Package telemeter implements the metrics backend client used to evaluate
// expanded rule queries.
package telemeter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// bearerTransport injects the metrics bearer token into every request.
type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.next.RoundTrip(clone)
}

// Client evaluates instant queries against a Prometheus-compatible backend.
type Client struct {
	api v1.API
}

var _ contract.MetricsClient = &Client{} // Compile-time check

// NewClient builds a metrics client for the given base URL and bearer token.
func NewClient(baseURL, token string) (*Client, error) {
	apiClient, err := api.NewClient(api.Config{
		Address: baseURL,
		RoundTripper: &bearerTransport{
			token: token,
			next:  api.DefaultRoundTripper,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create metrics client for %s: %w", baseURL, err)
	}
	return &Client{api: v1.NewAPI(apiClient)}, nil
}

// Query evaluates the query at the given instant. An empty result set is
// not an error; it is reported through the absent flag so the caller can
// classify the cell as unknown rather than failed.
func (c *Client) Query(ctx context.Context, query string, ts time.Time) (float64, bool, error) {
	result, warnings, err := c.api.Query(ctx, query, ts)
	if err != nil {
		return 0, false, err
	}
	for _, w := range warnings {
		contract.LogWarn("Metrics backend warning", fmt.Errorf("%s", w))
	}

	switch v := result.(type) {
	case model.Vector:
		if len(v) == 0 {
			return 0, true, nil
		}
		// Rule queries are expected to aggregate down to one series;
		// mirror the upstream convention of taking the first sample.
		return float64(v[0].Value), false, nil
	case *model.Scalar:
		return float64(v.Value), false, nil
	default:
		return 0, false, fmt.Errorf("unexpected result type %q for query %q", result.Type(), query)
	}
}
