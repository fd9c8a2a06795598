// Package tabular implements the client-facing table plumbing the dashboard
// is built on: parent-pointer hierarchy paths, multi-predicate filtering,
// and pagination over flat record lists. Every function is pure and total;
// malformed input degrades to a defined fallback instead of failing, because
// the data comes from a best-effort upstream and the UI must always render.
package tabular

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PathSeparator joins ancestor names in a display path.
const PathSeparator = " → "

// PathNode is a hierarchical record: a location, a CheckMK folder, anything
// with a parent pointer into the same list.
type PathNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty"`
	DisplayPath string `json:"display_path"`
}

// BuildPaths computes each node's root-to-leaf display path and returns the
// nodes sorted by path with locale-aware comparison. Parent walks terminate
// on a missing parent, a parent id absent from the input, or a cycle; a
// cyclic walk marks its terminal segment with " (cycle)" and truncates
// rather than failing, since downstream always needs a renderable string.
func BuildPaths(nodes []PathNode) []PathNode {
	byID := make(map[string]PathNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	out := make([]PathNode, 0, len(nodes))
	for _, n := range nodes {
		n.DisplayPath = walkPath(n, byID)
		out = append(out, n)
	}

	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return collator.CompareString(out[i].DisplayPath, out[j].DisplayPath) < 0
	})

	return out
}

func walkPath(node PathNode, byID map[string]PathNode) string {
	segments := []string{node.Name}
	visited := map[string]struct{}{node.ID: {}}

	current := node
	for current.ParentID != "" {
		parent, ok := byID[current.ParentID]
		if !ok {
			break
		}
		if _, seen := visited[parent.ID]; seen {
			segments = append(segments, parent.Name+" (cycle)")
			break
		}
		visited[parent.ID] = struct{}{}
		segments = append([]string{parent.Name}, segments...)
		current = parent
	}

	return strings.Join(segments, PathSeparator)
}
