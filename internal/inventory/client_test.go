package inventory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticBearer is a BearerSource returning a fixed token or error.
type staticBearer struct {
	token string
	err   error
}

func (b *staticBearer) AccessToken(_ context.Context) (string, error) {
	return b.token, b.err
}

func TestSearchClusters(t *testing.T) {
	selector := "cluster_mgmt.status = 'ready' and name like 'prod%'"
	created := time.Now().Add(-40*24*time.Hour - time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clusters_mgmt/v1/clusters", r.URL.Path)
		assert.Equal(t, selector, r.URL.Query().Get("search"))
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items": [
			{"id": "int-1", "name": "prod-east", "external_id": "ext-1", "creation_timestamp": %q},
			{"id": "int-2", "name": "prod-install-pending", "external_id": ""}
		]}`, created.Format(time.RFC3339))
	}))
	defer server.Close()

	client := NewClient(server.URL, &staticBearer{token: "access-token"}, server.Client())

	clusters, err := client.SearchClusters(context.Background(), selector)
	require.NoError(t, err)

	// The item without an external ID is not queryable and gets dropped.
	require.Len(t, clusters, 1)
	assert.Equal(t, "ext-1", clusters[0].ID)
	assert.Equal(t, "prod-east", clusters[0].Name)
	assert.Equal(t, "int-1", clusters[0].Labels["id"])
	assert.Equal(t, "ext-1", clusters[0].Labels["external_id"])
	assert.Equal(t, "40d", clusters[0].Labels["age"])
}

func TestSearchClustersErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, &staticBearer{token: "access-token"}, server.Client())

	_, err := client.SearchClusters(context.Background(), "env='prod'")
	var queryErr *contract.InventoryQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "env='prod'", queryErr.Selector)
	assert.Equal(t, http.StatusInternalServerError, queryErr.Status)
}

func TestSearchClustersBearerFailure(t *testing.T) {
	client := NewClient("https://inventory.example.com", &staticBearer{err: errors.New("sso down")}, nil)

	_, err := client.SearchClusters(context.Background(), "env='prod'")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestSearchClustersBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>gateway error</html>")
	}))
	defer server.Close()

	client := NewClient(server.URL, &staticBearer{token: "access-token"}, server.Client())

	_, err := client.SearchClusters(context.Background(), "env='prod'")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode")
}

func TestClusterLabelsWithoutTimestamp(t *testing.T) {
	labels := clusterLabels(clusterItem{ID: "int-9", ExternalID: "ext-9"}, time.Now())
	assert.Equal(t, "int-9", labels["id"])
	assert.NotContains(t, labels, "age")
}
