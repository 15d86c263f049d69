package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-department headcount summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}

			summaries, err := svc.Summaries(cmd.Context(), opts.criteria())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DEPARTMENT\tTOTAL\tACTIVE\tPOSITIONS")
			for _, s := range summaries {
				department := s.Department
				if department == "" {
					department = "(none)"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", department, s.Total, s.Active, formatPositions(s.Positions))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
