package contract

import (
	"context"
	"time"

	"github.com/fleetwatch/slireport/schema"
	"github.com/stretchr/testify/mock"
)

// MockInventoryClient is a mock implementation of InventoryClient for testing.
type MockInventoryClient struct {
	mock.Mock
}

var _ InventoryClient = &MockInventoryClient{} // Compile-time check

// SearchClusters implements the InventoryClient interface.
func (m *MockInventoryClient) SearchClusters(ctx context.Context, selector string) ([]schema.Cluster, error) {
	ret := m.Called(ctx, selector)
	clusters, _ := ret.Get(0).([]schema.Cluster)
	return clusters, ret.Error(1)
}

// MockMetricsClient is a mock implementation of MetricsClient for testing.
type MockMetricsClient struct {
	mock.Mock
}

var _ MetricsClient = &MockMetricsClient{} // Compile-time check

// Query implements the MetricsClient interface.
func (m *MockMetricsClient) Query(ctx context.Context, query string, ts time.Time) (float64, bool, error) {
	ret := m.Called(ctx, query, ts)
	return ret.Get(0).(float64), ret.Bool(1), ret.Error(2)
}
