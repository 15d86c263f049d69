package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hr-organogram/internal/domain"
	"github.com/hr-organogram/internal/organogram"
)

type nodeOutput struct {
	Node *domain.HierarchyNode `json:"node"`
	Path []string              `json:"path"`
}

func newNodeCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Print one person's subtree and chain of supervisors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd)
			if err != nil {
				return err
			}

			node, path, err := svc.Node(cmd.Context(), opts.criteria(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			ids := make([]string, len(path))
			for i, n := range path {
				ids[i] = n.ID
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, nodeOutput{Node: node, Path: ids})
			}

			fmt.Fprintf(out, "path: %s\n\n", strings.Join(ids, " > "))
			writeTree(out, organogram.Flatten([]*domain.HierarchyNode{node}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}
