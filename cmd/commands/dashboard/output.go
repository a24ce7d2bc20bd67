package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (expected table, json or yaml)", format)
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validateFormat(format)
}

// printSnapshot prints the summary cards followed by the page table.
func printSnapshot(w io.Writer, snap *vitals.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tSTATUS\tTREND")
	fmt.Fprintln(tw, "------\t-----\t------\t-----")
	for _, c := range snap.SummaryCards {
		value := c.Value
		if c.Unit != "" {
			value += " " + c.Unit
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n",
			c.Title,
			value,
			c.Status.Label(),
			c.Trend.Direction.Icon(),
			c.Trend.Value,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if snap.Filter != "" {
		fmt.Fprintf(w, "Pages matching %q:\n", snap.Filter)
	}
	return printPages(w, snap.PageRows)
}

// printPages prints one line per page. Derived row statuses carry an
// asterisk.
func printPages(w io.Writer, rows []vitals.PageRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No pages found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tLCP\tINP\tCLS\tSTATUS")
	fmt.Fprintln(tw, "----\t---\t---\t---\t------")
	derived := false
	for _, r := range rows {
		status := r.Status.Label()
		if r.StatusSource == vitals.StatusDerived {
			status += "*"
			derived = true
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Page,
			vitals.FormatLCP(r.LCP),
			vitals.FormatINP(r.INP),
			vitals.FormatCLS(r.CLS),
			status,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if derived {
		fmt.Fprintln(w, "* status derived from the worst metric")
	}
	return nil
}
