package main

import "github.com/spf13/cobra"

// NewRootCmd creates the root command for incidentctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incidentctl",
		Short: "Offline tooling for incident report spreadsheets",
		Long: `incidentctl runs the same decode and normalization steps as the ingest
service against local files, without writing anything to a store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewPreviewCmd())
	cmd.AddCommand(NewSampleCmd())

	return cmd
}
