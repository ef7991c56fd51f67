package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/fleetwatch/slireport/schema"
)

// CautionMargin is how close a passing value may sit above its goal before
// it is flagged as borderline: one hundredth of a percentage point.
const CautionMargin = 0.0001

// AbsentCell is the placeholder rendered for cells with no observed data.
const AbsentCell = "--"

// Color variables for console output.
var (
	FailColor    = color.New(color.FgRed, color.Bold)    // failColor marks SLA violations.
	CautionColor = color.New(color.FgYellow, color.Bold) // cautionColor marks barely-passing cells.
	PassColor    = color.New(color.FgGreen)              // passColor marks compliant cells.
)

// GetPlainCell returns the uncolored display string for a report cell's
// observed value. This is the core logic used for CSV, JSON, and table
// printing.
func GetPlainCell(cell schema.ReportCell, precision int) string {
	if cell.Status == schema.UnknownStatus {
		return AbsentCell
	}
	return schema.FormatPercent(cell.Value, precision) + "%"
}

// GetColorCell returns a colored display string for console output (table).
// It uses GetPlainCell to determine the string, and then applies the
// appropriate color based on the cell's status and distance from its goal.
func GetColorCell(cell schema.ReportCell, precision int) string {
	text := GetPlainCell(cell, precision)

	switch cell.Status {
	case schema.FailStatus:
		return FailColor.Sprint(text)
	case schema.PassStatus:
		if cell.Value-cell.Goal < CautionMargin {
			return CautionColor.Sprint(text)
		}
		return PassColor.Sprint(text)
	default: // unknown
		return text
	}
}

// TruncateName shortens a display name to fit a table column, keeping the
// trailing runes which carry the distinguishing suffix.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}

// ParseBoolString parses flexible yes/no style boolean flags.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no/true/false/1/0, got %q", s)
	}
}

// SelectOutputFile returns the file to write output to.
// An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the query cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".slireport_cache.db"
	}
	return filepath.Join(homeDir, ".slireport_cache.db")
}
