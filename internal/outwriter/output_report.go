package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/parquet"
	"github.com/fleetwatch/slireport/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReportResults outputs the report matrix, dispatching based on the output format configured.
func WriteReportResults(matrix *schema.ReportMatrix, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportJSON(w, matrix, cfg)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, matrix, cfg)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportHTML(w, matrix, cfg)
		}, "Wrote HTML")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteReportParquet(parquet.ConvertReportRows(matrix), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, matrix, cfg, duration)
		}, "Wrote table")
	}
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, matrix *schema.ReportMatrix, cfg *contract.Config, duration time.Duration) error {
	if cfg.Title != "" {
		if _, err := fmt.Fprintln(w, cfg.Title); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header(matrix.Headers())
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	cell := contract.GetPlainCell
	if cfg.UseColors {
		cell = contract.GetColorCell
	}

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, cluster := range matrix.Clusters {
		row := make([]string, 0, 1+2*len(matrix.Rules))
		row = append(row, contract.TruncateName(displayName(cluster), nameWidth))
		for j := range matrix.Rules {
			c := matrix.Cell(i, j)
			row = append(row, schema.FormatPercent(c.Goal, cfg.Precision)+"%", cell(c, cfg.Precision))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return reportFooter(w, matrix, cfg, duration)
}

// writeReportCSV writes the matrix in wide CSV format, one row per cluster.
func writeReportCSV(w io.Writer, matrix *schema.ReportMatrix, cfg *contract.Config) error {
	return writeCSVWithHeader(w, matrix.Headers(), func(cw *csv.Writer) error {
		for i, cluster := range matrix.Clusters {
			rec := make([]string, 0, 1+2*len(matrix.Rules))
			rec = append(rec, displayName(cluster))
			for j := range matrix.Rules {
				c := matrix.Cell(i, j)
				rec = append(rec, schema.FormatPercent(c.Goal, cfg.Precision), contract.GetPlainCell(c, cfg.Precision))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeReportJSON writes the matrix in long JSON format, one entry per cell.
func writeReportJSON(w io.Writer, matrix *schema.ReportMatrix, cfg *contract.Config) error {
	type jsonReport struct {
		Title       string            `json:"title,omitempty"`
		EvaluatedAt string            `json:"evaluated_at"`
		Rows        []schema.RowEntry `json:"rows"`
	}
	return writeJSON(w, jsonReport{
		Title:       cfg.Title,
		EvaluatedAt: matrix.EvaluatedAt.Format(contract.DateTimeFormat),
		Rows:        matrix.Flatten(),
	})
}

// displayName is the cluster row label: the name when the inventory knows
// one, otherwise the raw ID.
func displayName(cluster schema.Cluster) string {
	if cluster.Name != "" {
		return cluster.Name
	}
	return cluster.ID
}
