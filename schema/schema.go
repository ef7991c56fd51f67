// Package schema holds shared data structures used across packages.
package schema

// Rule is one configured SLI rule: a named query template with a compliance goal.
// Rules are immutable once loaded from configuration.
type Rule struct {
	// Name is the unique, human-readable key for the rule.
	Name string `json:"name" mapstructure:"name"`

	// Description is optional free-form text shown in rule listings.
	Description string `json:"description,omitempty" mapstructure:"description"`

	// Goal is the minimum compliant value of the SLI, in [0, 1].
	Goal float64 `json:"goal" mapstructure:"goal"`

	// Query is the query template with ${var} placeholders.
	Query string `json:"query" mapstructure:"query"`
}

// Cluster is one resolved member of the fleet. Produced by the inventory
// resolver and immutable for the remainder of the run.
type Cluster struct {
	// ID is the opaque unique cluster identifier (the external ID used
	// to scope metrics queries).
	ID string `json:"id"`

	// Name is the display name returned by the inventory API.
	Name string `json:"name"`

	// Labels carries informational attributes captured at resolution time,
	// e.g. the cluster age in days.
	Labels map[string]string `json:"labels,omitempty"`
}

// GlobalVars is the set of named scalars available for substitution into
// every rule's query template. Shared read-only across a run.
type GlobalVars map[string]string
