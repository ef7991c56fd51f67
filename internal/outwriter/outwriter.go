// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport renders the report matrix using the configured output format.
func (ow *OutWriter) WriteReport(matrix *schema.ReportMatrix, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(matrix, cfg, duration)
}

// WriteClusters prints the resolved cluster set using the configured output format.
func (ow *OutWriter) WriteClusters(clusters []schema.Cluster, cfg *contract.Config) error {
	return WriteClusterResults(clusters, cfg)
}

// WriteRules prints the configured rules using the configured output format.
func (ow *OutWriter) WriteRules(rules []schema.Rule, cfg *contract.Config) error {
	return WriteRuleResults(rules, cfg)
}

// getMaxTableNameWidth calculates the maximum width for cluster names in
// table output based on terminal width and the number of rule columns.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the goal and performance columns with borders and
	// padding: roughly 11 characters each per rule.
	baseWidth := 22*len(cfg.Rules) + 10

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// reportFooter prints the shared run summary below table output.
func reportFooter(w io.Writer, matrix *schema.ReportMatrix, cfg *contract.Config, duration time.Duration) error {
	if cfg.Footer != "" {
		if _, err := fmt.Fprintln(w, cfg.Footer); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Evaluated %d clusters x %d rules at %s in %v with %d workers. Cache backend: %s\n",
		len(matrix.Clusters), len(matrix.Rules),
		matrix.EvaluatedAt.Format(contract.DateTimeFormat),
		duration.Round(time.Millisecond), cfg.Workers, cfg.CacheBackend)
	return err
}
