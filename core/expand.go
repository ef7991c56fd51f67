// Package core implements the report engine: cluster resolution, query
// template expansion, concurrent metrics execution, and matrix assembly.
package core

import (
	"regexp"
	"strconv"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
)

// placeholderPattern matches ${name} placeholders in query templates.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandQuery substitutes every ${name} placeholder in the rule's query
// template. Placeholders resolve, in increasing precedence, against the
// rule's own fields, the global variables, and the reserved "sel" variable
// carrying the per-cluster scoping fragment. Expansion is pure: the same
// inputs always yield the same string.
//
// An unresolved placeholder returns UndefinedVariableError. Callers expand
// every (rule, cluster) pair up front so a configuration defect surfaces
// before any metrics call.
func ExpandQuery(rule schema.Rule, cluster schema.Cluster, globals schema.GlobalVars) (string, error) {
	params := map[string]string{
		"name":        rule.Name,
		"description": rule.Description,
		"goal":        strconv.FormatFloat(rule.Goal, 'f', -1, 64),
	}
	for name, value := range globals {
		params[name] = value
	}
	params["sel"] = clusterSelector(cluster)

	var missing *contract.UndefinedVariableError
	expanded := placeholderPattern.ReplaceAllStringFunc(rule.Query, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := params[name]
		if !ok {
			if missing == nil {
				missing = &contract.UndefinedVariableError{Name: name}
			}
			return match
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return expanded, nil
}

// clusterSelector derives the reserved "sel" fragment scoping a metrics
// query to one cluster.
func clusterSelector(cluster schema.Cluster) string {
	return "_id='" + cluster.ID + "'"
}
