// Package parquet exports report cells to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/fleetwatch/slireport/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRow is one (cluster, rule) cell in long format, suitable for
// loading report snapshots into analytical tooling.
type ReportRow struct {
	// ClusterID is the opaque cluster identifier used for metrics scoping
	ClusterID string `parquet:"cluster_id,snappy"`

	// ClusterName is the display name from the inventory API
	ClusterName string `parquet:"cluster_name,snappy"`

	// RuleName is the SLI rule this cell belongs to
	RuleName string `parquet:"rule_name,snappy"`

	// Goal is the configured compliance goal as a ratio in [0, 1]
	Goal float64 `parquet:"goal,snappy"`

	// Value is the observed ratio (nullable, absent when no data came back)
	Value *float64 `parquet:"value,optional,snappy"`

	// Status is the classification: pass, fail, or unknown
	Status string `parquet:"status,snappy"`

	// EvaluatedAt is the shared as-of instant of the run
	EvaluatedAt time.Time `parquet:"evaluated_at,snappy"`
}

// WriteReportParquet writes report rows to a Parquet file.
func WriteReportParquet(rows []ReportRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ReportRow struct tags
	writer := parquet.NewGenericWriter[ReportRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertReportRows flattens a report matrix into Parquet rows.
func ConvertReportRows(matrix *schema.ReportMatrix) []ReportRow {
	entries := matrix.Flatten()
	rows := make([]ReportRow, len(entries))
	for i, e := range entries {
		row := ReportRow{
			ClusterID:   e.ClusterID,
			ClusterName: e.ClusterName,
			RuleName:    e.RuleName,
			Goal:        e.Goal,
			Status:      string(e.Status),
			EvaluatedAt: e.EvaluatedAt,
		}
		if !e.Absent {
			value := e.Value
			row.Value = &value
		}
		rows[i] = row
	}
	return rows
}
