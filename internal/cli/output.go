package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
)

// Table renders data as a formatted table.
type Table struct {
	headers []string
	rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		writer:  stdout,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table to stdout.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))

	// Separator
	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	// Rows
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// printOutput prints data in the requested format.
func printOutput(data interface{}) error {
	switch getOutputFormat() {
	case "yaml":
		return printYAML(data)
	default:
		// Table callers render themselves; anything else falls back to JSON.
		return printJSON(data)
	}
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printYAML goes through JSON first so field names follow the json tags.
func printYAML(data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatSeverity returns a severity string with visual indicator.
func formatSeverity(severity alert.Severity) string {
	switch severity {
	case alert.SeverityCritical:
		return "[!] CRITICAL"
	case alert.SeverityHigh:
		return "[H] HIGH"
	case alert.SeverityMedium:
		return "[M] MEDIUM"
	case alert.SeverityLow:
		return "[L] LOW"
	default:
		return string(severity)
	}
}

// formatStatus returns a status string with visual indicator.
func formatStatus(status string) string {
	switch strings.ToUpper(status) {
	case "RESOLVED", "COMPLETED", "PASS", "OK", "IDLE":
		return "[+] " + status
	case "FAIL", "ERROR":
		return "[-] " + status
	case "OPEN", "REOPEN", "KNOWN_DEFECT_REPRODUCED":
		return "[*] " + status
	case "IN_PROGRESS", "REMEDIATION_IN_PROGRESS", "REMEDIATED_WAITING_FOR_CUSTOMER", "RUNNING":
		return "[~] " + status
	default:
		return status
	}
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}

// remediationMode is "auto" or "manual" as classified from the alert record
func remediationMode(a *alert.Alert) string {
	if a.IsAutoRemediate() {
		return "auto"
	}
	return "manual"
}
