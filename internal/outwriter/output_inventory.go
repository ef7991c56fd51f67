package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteClusterResults outputs the resolved cluster set, dispatching based on the output format configured.
func WriteClusterResults(clusters []schema.Cluster, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, clusters)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"id", "name", "labels"}, func(cw *csv.Writer) error {
				for _, c := range clusters {
					if err := cw.Write([]string{c.ID, c.Name, formatLabels(c.Labels)}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"ID", "Name", "Labels"})
			var data [][]string
			for _, c := range clusters {
				data = append(data, []string{c.ID, c.Name, formatLabels(c.Labels)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Resolved %d clusters from %d selectors\n", len(clusters), len(cfg.Selectors))
			return err
		}, "Wrote table")
	}
}

// WriteRuleResults outputs the configured rules, dispatching based on the output format configured.
func WriteRuleResults(rules []schema.Rule, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "description", "goal", "query"}, func(cw *csv.Writer) error {
				for _, r := range rules {
					rec := []string{r.Name, r.Description, schema.FormatPercent(r.Goal, cfg.Precision), r.Query}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Name", "Goal", "Description"})
			var data [][]string
			for _, r := range rules {
				data = append(data, []string{r.Name, schema.FormatPercent(r.Goal, cfg.Precision) + "%", r.Description})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote table")
	}
}

// formatLabels renders a label map as stable key=value pairs.
func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+labels[k])
	}
	return strings.Join(pairs, ",")
}
