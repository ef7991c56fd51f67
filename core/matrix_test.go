package core

import (
	"testing"
	"time"

	"github.com/fleetwatch/slireport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix(t *testing.T) {
	asOf := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("single passing cell", func(t *testing.T) {
		clusters := []schema.Cluster{{ID: "c1"}}
		rules := []schema.Rule{{Name: "A", Goal: 0.995}}
		results := []schema.QueryResult{{RuleName: "A", ClusterID: "c1", Value: 0.996, EvaluatedAt: asOf}}

		matrix := BuildMatrix(clusters, rules, results, asOf)

		require.Len(t, matrix.Cells, 1)
		require.Len(t, matrix.Cells[0], 1)
		cell := matrix.Cell(0, 0)
		assert.Equal(t, 0.995, cell.Goal)
		assert.Equal(t, 0.996, cell.Value)
		assert.Equal(t, schema.PassStatus, cell.Status)
	})

	t.Run("boundary value passes", func(t *testing.T) {
		matrix := BuildMatrix(
			[]schema.Cluster{{ID: "c1"}},
			[]schema.Rule{{Name: "A", Goal: 0.995}},
			[]schema.QueryResult{{RuleName: "A", ClusterID: "c1", Value: 0.995}},
			asOf,
		)
		assert.Equal(t, schema.PassStatus, matrix.Cell(0, 0).Status, "observed == goal must pass")
	})

	t.Run("below goal fails", func(t *testing.T) {
		matrix := BuildMatrix(
			[]schema.Cluster{{ID: "c1"}},
			[]schema.Rule{{Name: "A", Goal: 0.995}},
			[]schema.QueryResult{{RuleName: "A", ClusterID: "c1", Value: 0.99}},
			asOf,
		)
		assert.Equal(t, schema.FailStatus, matrix.Cell(0, 0).Status)
	})

	t.Run("absent result is unknown regardless of goal", func(t *testing.T) {
		matrix := BuildMatrix(
			[]schema.Cluster{{ID: "c1"}},
			[]schema.Rule{{Name: "A", Goal: 0}},
			[]schema.QueryResult{{RuleName: "A", ClusterID: "c1", Absent: true}},
			asOf,
		)
		assert.Equal(t, schema.UnknownStatus, matrix.Cell(0, 0).Status)
	})

	t.Run("missing result is unknown", func(t *testing.T) {
		matrix := BuildMatrix(
			[]schema.Cluster{{ID: "c1"}},
			[]schema.Rule{{Name: "A", Goal: 0.9}},
			nil,
			asOf,
		)
		cell := matrix.Cell(0, 0)
		assert.True(t, cell.Absent)
		assert.Equal(t, schema.UnknownStatus, cell.Status)
	})

	t.Run("every pair has exactly one cell", func(t *testing.T) {
		clusters := []schema.Cluster{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
		rules := []schema.Rule{{Name: "A", Goal: 0.9}, {Name: "B", Goal: 0.8}}

		matrix := BuildMatrix(clusters, rules, nil, asOf)

		require.Len(t, matrix.Cells, 3)
		for _, row := range matrix.Cells {
			assert.Len(t, row, 2)
		}
	})

	t.Run("empty cluster set yields empty report", func(t *testing.T) {
		matrix := BuildMatrix(nil, []schema.Rule{{Name: "A", Goal: 0.9}}, nil, asOf)
		assert.Empty(t, matrix.Cells)
		assert.Equal(t, asOf, matrix.EvaluatedAt)
	})
}

func TestMatrixHeaders(t *testing.T) {
	matrix := BuildMatrix(
		nil,
		[]schema.Rule{{Name: "API Uptime", Goal: 0.995}, {Name: "etcd", Goal: 0.99}},
		nil,
		time.Now(),
	)
	assert.Equal(t, []string{
		"Cluster",
		"API Uptime Goal", "API Uptime Perf.",
		"etcd Goal", "etcd Perf.",
	}, matrix.Headers())
}
