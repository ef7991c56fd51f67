package contract

import (
	"errors"
	"fmt"
)

// ErrInvalidCredential marks a bearer credential that failed decoding or
// signature verification. It is fatal and detected before any backend call.
var ErrInvalidCredential = errors.New("invalid credential")

// InventoryQueryError reports a failed inventory lookup for one selector.
// It degrades the cluster set but does not abort the run.
type InventoryQueryError struct {
	Selector string
	Status   int
}

func (e *InventoryQueryError) Error() string {
	return fmt.Sprintf("inventory query for selector %q failed with status %d", e.Selector, e.Status)
}

// UndefinedVariableError reports a template placeholder with no resolution.
// It is a configuration defect, fatal before any metrics call.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined template variable %q", e.Name)
}

// MetricsQueryError reports a metrics query that failed after exhausting
// retries. The affected cell degrades to unknown; the run continues.
type MetricsQueryError struct {
	RuleName  string
	ClusterID string
	Err       error
}

func (e *MetricsQueryError) Error() string {
	return fmt.Sprintf("metrics query for rule %q on cluster %q failed: %v", e.RuleName, e.ClusterID, e.Err)
}

func (e *MetricsQueryError) Unwrap() error {
	return e.Err
}
