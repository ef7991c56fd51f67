package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		goal   float64
		value  float64
		absent bool
		want   CellStatus
	}{
		{"above goal passes", 0.995, 0.9971, false, PassStatus},
		{"exactly at goal passes", 0.995, 0.995, false, PassStatus},
		{"below goal fails", 0.995, 0.9949, false, FailStatus},
		{"zero goal always passes", 0, 0, false, PassStatus},
		{"absent is unknown even above goal", 0.995, 0.9971, true, UnknownStatus},
		{"absent zero is unknown", 0.995, 0, true, UnknownStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.goal, tc.value, tc.absent))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "99.510", FormatPercent(0.9951, 3))
	assert.Equal(t, "99.5", FormatPercent(0.995, 1))
	assert.Equal(t, "100", FormatPercent(1, 0))
	assert.Equal(t, "0.000", FormatPercent(0, 3))
}

func sampleMatrix() *ReportMatrix {
	return &ReportMatrix{
		Clusters: []Cluster{
			{ID: "c1", Name: "prod-east"},
			{ID: "c2"},
		},
		Rules: []Rule{
			{Name: "API Uptime", Goal: 0.995},
			{Name: "etcd", Goal: 0.999},
		},
		Cells: [][]ReportCell{
			{
				{Goal: 0.995, Value: 0.9971, Status: PassStatus},
				{Goal: 0.999, Value: 0.998, Status: FailStatus},
			},
			{
				{Goal: 0.995, Absent: true, Status: UnknownStatus},
				{Goal: 0.999, Value: 0.9995, Status: PassStatus},
			},
		},
		EvaluatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
}

func TestReportMatrixHeaders(t *testing.T) {
	matrix := sampleMatrix()
	assert.Equal(t, []string{
		"Cluster",
		"API Uptime Goal", "API Uptime Perf.",
		"etcd Goal", "etcd Perf.",
	}, matrix.Headers())
}

func TestReportMatrixFlatten(t *testing.T) {
	matrix := sampleMatrix()
	rows := matrix.Flatten()
	require.Len(t, rows, 4)

	// Row-major: clusters outer, rules inner.
	assert.Equal(t, "c1", rows[0].ClusterID)
	assert.Equal(t, "API Uptime", rows[0].RuleName)
	assert.Equal(t, PassStatus, rows[0].Status)
	assert.Equal(t, "c1", rows[1].ClusterID)
	assert.Equal(t, "etcd", rows[1].RuleName)

	assert.Equal(t, "c2", rows[2].ClusterID)
	assert.True(t, rows[2].Absent)
	assert.Equal(t, UnknownStatus, rows[2].Status)
	assert.Equal(t, matrix.EvaluatedAt, rows[3].EvaluatedAt)
}

func TestReportMatrixCell(t *testing.T) {
	matrix := sampleMatrix()
	cell := matrix.Cell(1, 1)
	assert.Equal(t, PassStatus, cell.Status)
	assert.InDelta(t, 0.9995, cell.Value, 1e-9)
}
