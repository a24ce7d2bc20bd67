package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/vitalmetrics/internal/history"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded page metrics",
		Long: `List recorded page metrics, newest first.

Examples:
  vitalmetrics history list
  vitalmetrics history list --page /checkout --limit 50
  vitalmetrics history list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("page", "", "Only show entries for this exact page path")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	page, _ := cmd.Flags().GetString("page")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" && output != "yaml" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	repo, err := history.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.List(page, limit)
	if err != nil {
		return err
	}

	switch output {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return err
		}
		return encoder.Close()
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPAGE\tLCP\tINP\tCLS\tSTATUS")
	fmt.Fprintln(w, "----\t----\t---\t---\t---\t------")
	for _, entry := range entries {
		status := entry.Status.Label()
		if entry.StatusSource == vitals.StatusDerived {
			status += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Page,
			vitals.FormatLCP(entry.LCP),
			vitals.FormatINP(entry.INP),
			vitals.FormatCLS(entry.CLS),
			status,
		)
	}
	return w.Flush()
}
