package core

import (
	"time"

	"github.com/fleetwatch/slireport/schema"
)

// pairKey identifies one (rule, cluster) result slot.
type pairKey struct {
	rule    string
	cluster string
}

// BuildMatrix assembles the two-dimensional report from resolved clusters,
// configured rules, and executor outputs. Rows follow cluster resolution
// order and columns follow rule configuration order; every pair gets
// exactly one cell. A pair with no matching result, or an absent result,
// classifies as unknown.
func BuildMatrix(clusters []schema.Cluster, rules []schema.Rule, results []schema.QueryResult, asOf time.Time) *schema.ReportMatrix {
	indexed := make(map[pairKey]schema.QueryResult, len(results))
	for _, r := range results {
		indexed[pairKey{rule: r.RuleName, cluster: r.ClusterID}] = r
	}

	cells := make([][]schema.ReportCell, len(clusters))
	for i, cluster := range clusters {
		row := make([]schema.ReportCell, len(rules))
		for j, rule := range rules {
			result, found := indexed[pairKey{rule: rule.Name, cluster: cluster.ID}]
			absent := !found || result.Absent
			row[j] = schema.ReportCell{
				Goal:   rule.Goal,
				Value:  result.Value,
				Absent: absent,
				Status: schema.Classify(rule.Goal, result.Value, absent),
			}
		}
		cells[i] = row
	}

	return &schema.ReportMatrix{
		Clusters:    clusters,
		Rules:       rules,
		Cells:       cells,
		EvaluatedAt: asOf,
	}
}
