// Package mermaid renders package dependency graphs as mermaid flowcharts.
package mermaid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// Header is the first line of every rendered diagram.
const Header = "graph LR;"

// Render produces a left-to-right mermaid flowchart from a directed graph
// keyed by package label. Nodes are sorted by label and edges by
// (source, target). The "%% Dependencies" section is emitted only when the
// graph has at least one edge.
func Render(g graph.Graph[string, string]) (string, error) {
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return "", fmt.Errorf("failed to read graph: %w", err)
	}

	labels := make([]string, 0, len(adjacency))
	for label := range adjacency {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	ids := assignIDs(labels)

	var sb strings.Builder
	sb.WriteString(Header + "\n")
	sb.WriteString("  %% Nodes\n")
	for _, label := range labels {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"];\n", ids[label], escapeLabel(label)))
	}

	var edges [][2]string
	for _, source := range labels {
		for target := range adjacency[source] {
			edges = append(edges, [2]string{source, target})
		}
	}
	if len(edges) == 0 {
		return sb.String(), nil
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	sb.WriteString("  %% Dependencies\n")
	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("  %s --> %s;\n", ids[e[0]], ids[e[1]]))
	}

	return sb.String(), nil
}

// reservedIDs are flowchart keywords that cannot be used as bare node ids.
var reservedIDs = map[string]bool{
	"end":       true,
	"graph":     true,
	"subgraph":  true,
	"flowchart": true,
	"style":     true,
	"class":     true,
	"classdef":  true,
	"click":     true,
	"linkstyle": true,
	"direction": true,
}

// SanitizeID turns an arbitrary label into a mermaid node identifier matching
// [A-Za-z][A-Za-z0-9_]*. Keywords are prefixed with pkg_.
func SanitizeID(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if isIDRune(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}

	id := sb.String()
	if id == "" {
		return "pkg"
	}
	if !isLetter(rune(id[0])) || reservedIDs[strings.ToLower(id)] {
		id = "pkg_" + id
	}
	return id
}

// assignIDs sanitizes sorted labels, suffixing _2, _3, ... on collision.
func assignIDs(labels []string) map[string]string {
	ids := make(map[string]string, len(labels))
	used := make(map[string]bool, len(labels))

	for _, label := range labels {
		base := SanitizeID(label)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		ids[label] = id
	}
	return ids
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, "#quot;")
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIDRune(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9') || r == '_'
}
