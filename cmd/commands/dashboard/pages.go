package dashboard

import (
	"strings"

	"nathanbeddoewebdev/vitalmetrics/internal/app"

	"github.com/spf13/cobra"
)

// PagesCommand returns the "pages" command.
func PagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List per-page metrics",
		Long: `List classified metrics for every page, or for pages whose path contains
--page.

Examples:
  vitalmetrics pages
  vitalmetrics pages --page /blog -o json`,
		Args:         cobra.NoArgs,
		RunE:         runPages,
		SilenceUsage: true,
	}

	cmd.Flags().String("page", "", "Only list pages whose path contains this text")
	cmd.Flags().StringP("output", "o", formatTable, "Output format: table, json or yaml")

	return cmd
}

func runPages(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetString("page")
	output, _ := cmd.Flags().GetString("output")
	output = strings.ToLower(strings.TrimSpace(output))

	if err := validateFormat(output); err != nil {
		return err
	}

	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.Pipeline.LoadPages(cmd.Context(), strings.TrimSpace(page))
	if err != nil {
		return loadError("pages", err)
	}

	if output == formatTable {
		return printPages(cmd.OutOrStdout(), rows)
	}
	return encode(cmd.OutOrStdout(), output, rows)
}
