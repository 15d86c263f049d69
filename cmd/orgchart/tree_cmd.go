package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/organogram"
)

type treeOutput struct {
	Total        int                     `json:"total"`
	Overview     domain.Overview         `json:"overview"`
	Roots        []*domain.HierarchyNode `json:"roots"`
	Skipped      []domain.SkippedRecord  `json:"skipped,omitempty"`
	BrokenCycles []string                `json:"broken_cycles,omitempty"`
}

func newTreeCmd(opts *options) *cobra.Command {
	var asJSON, strict bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the reporting forest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}

			view, err := svc.View(cmd.Context(), opts.criteria())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				err = writeJSON(out, treeOutput{
					Total:        view.Total,
					Overview:     view.Overview,
					Roots:        view.Forest.Roots,
					Skipped:      view.Forest.Skipped,
					BrokenCycles: view.Forest.BrokenCycles,
				})
			} else {
				writeTree(out, organogram.Flatten(view.Forest.Roots))
				fmt.Fprintf(out, "\n%d person(s), %d active, %d root(s)\n",
					view.Overview.Employees, view.Overview.Active, view.Overview.Roots)
				writeDiagnostics(out, view.Forest)
			}
			if err != nil {
				return err
			}

			if strict {
				return view.Forest.Err()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of an indented tree")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any record was skipped")
	return cmd
}
