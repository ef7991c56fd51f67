package schema

import (
	"fmt"
	"time"
)

// QueryResult is the outcome of one metrics query for a (rule, cluster)
// pair. Created exactly once per pair and never mutated afterwards.
type QueryResult struct {
	RuleName  string `json:"rule"`
	ClusterID string `json:"cluster"`

	// Value is the observed scalar. Only meaningful when Absent is false.
	Value float64 `json:"value"`

	// Absent marks a query that returned no time series at all.
	Absent bool `json:"absent"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// ReportCell is one goal-vs-observed comparison in the report matrix.
type ReportCell struct {
	Goal   float64    `json:"goal"`
	Value  float64    `json:"value"`
	Absent bool       `json:"absent"`
	Status CellStatus `json:"status"`
}

// ReportMatrix is the per-cluster, per-rule result table. Rows follow
// cluster resolution order, columns follow rule configuration order, and
// every (cluster, rule) pair has exactly one cell.
type ReportMatrix struct {
	Clusters    []Cluster      `json:"clusters"`
	Rules       []Rule         `json:"rules"`
	Cells       [][]ReportCell `json:"cells"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}

// Headers returns the display header row: a leading cluster column followed
// by a goal and a performance column per rule.
func (m *ReportMatrix) Headers() []string {
	headers := make([]string, 0, 1+2*len(m.Rules))
	headers = append(headers, "Cluster")
	for _, r := range m.Rules {
		headers = append(headers, r.Name+" Goal", r.Name+" Perf.")
	}
	return headers
}

// Cell returns the cell for the given row and column.
func (m *ReportMatrix) Cell(clusterIdx, ruleIdx int) ReportCell {
	return m.Cells[clusterIdx][ruleIdx]
}

// RowEntry is one flattened (cluster, rule) cell, used by exports that want
// long-format rows instead of the two-dimensional table.
type RowEntry struct {
	ClusterID   string     `json:"cluster_id"`
	ClusterName string     `json:"cluster_name"`
	RuleName    string     `json:"rule_name"`
	Goal        float64    `json:"goal"`
	Value       float64    `json:"value"`
	Absent      bool       `json:"absent"`
	Status      CellStatus `json:"status"`
	EvaluatedAt time.Time  `json:"evaluated_at"`
}

// Flatten converts the matrix into long-format rows, one per cell, in
// row-major order.
func (m *ReportMatrix) Flatten() []RowEntry {
	rows := make([]RowEntry, 0, len(m.Clusters)*len(m.Rules))
	for i, c := range m.Clusters {
		for j, r := range m.Rules {
			cell := m.Cells[i][j]
			rows = append(rows, RowEntry{
				ClusterID:   c.ID,
				ClusterName: c.Name,
				RuleName:    r.Name,
				Goal:        cell.Goal,
				Value:       cell.Value,
				Absent:      cell.Absent,
				Status:      cell.Status,
				EvaluatedAt: m.EvaluatedAt,
			})
		}
	}
	return rows
}

// FormatPercent renders a ratio in [0,1] as a fixed-precision percentage,
// matching the report's display convention (e.g. 0.9951 -> "99.510").
func FormatPercent(value float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, value*100)
}
