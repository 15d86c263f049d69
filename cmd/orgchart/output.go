package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hr-organogram/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTree печатает узлы в прямом порядке с отступом по глубине
// относительно первого узла
func writeTree(w io.Writer, nodes []*domain.HierarchyNode) {
	if len(nodes) == 0 {
		return
	}
	base := nodes[0].Depth
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s [%s]", strings.Repeat("  ", n.Depth-base), n.Name, n.ID)
		if details := nodeDetails(n); details != "" {
			fmt.Fprintf(w, " (%s)", details)
		}
		if n.Subordinates > 0 {
			fmt.Fprintf(w, " +%d", n.Subordinates)
		}
		fmt.Fprintln(w)
	}
}

func nodeDetails(n *domain.HierarchyNode) string {
	parts := make([]string, 0, 2)
	if n.Position != "" {
		parts = append(parts, n.Position)
	}
	if n.Department != "" {
		parts = append(parts, n.Department)
	}
	return strings.Join(parts, ", ")
}

func writeDiagnostics(w io.Writer, forest *domain.Forest) {
	if len(forest.Skipped) > 0 {
		fmt.Fprintf(w, "\nskipped %d record(s):\n", len(forest.Skipped))
		for _, s := range forest.Skipped {
			id := s.ID
			if id == "" {
				id = "-"
			}
			fmt.Fprintf(w, "  #%d %s: %s\n", s.Index, id, s.Reason)
		}
	}
	if len(forest.BrokenCycles) > 0 {
		fmt.Fprintf(w, "\nbroken reporting cycles at: %s\n", strings.Join(forest.BrokenCycles, ", "))
	}
}

// formatPositions печатает распределение по должностям в стабильном порядке
func formatPositions(positions map[string]int) string {
	keys := make([]string, 0, len(positions))
	for k := range positions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		name := k
		if name == "" {
			name = "(none)"
		}
		parts[i] = fmt.Sprintf("%s=%d", name, positions[k])
	}
	return strings.Join(parts, ", ")
}
