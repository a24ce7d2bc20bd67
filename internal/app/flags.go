package app

import (
	"github.com/spf13/cobra"
)

// AddFlags registers the process-wide flags on cmd as persistent flags.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("mock", false, "Serve API requests from the built-in mock data source")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
}

// FlagOptions reads the process-wide flags from cmd. Flags that were never
// registered read as false.
func FlagOptions(cmd *cobra.Command) Options {
	opts := Options{Console: cmd.ErrOrStderr()}
	if f := cmd.Flags().Lookup("mock"); f != nil {
		opts.Mock = f.Value.String() == "true"
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil {
		opts.Verbose = f.Value.String() == "true"
	}
	return opts
}

// FromCommand builds an App from the flags on cmd.
func FromCommand(cmd *cobra.Command) (*App, error) {
	return New(FlagOptions(cmd))
}
