// Package hop looks for possible index hopping: the same pattern hit from
// the same flowcell lane in more than one sample's hit file.
package hop

import (
	"sort"
	"strings"

	"github.com/stjude/fuzzion2/internal/hit"
)

// FlowcellLane extracts the flowcell lane embedded in a read name. A read
// name is a series of colon-separated values; the flowcell and lane are all
// but the last three. An empty string means the lane cannot be determined.
func FlowcellLane(readName string) string {
	parts := strings.Split(readName, ":")
	if len(parts) < 4 {
		return ""
	}
	return strings.Join(parts[:len(parts)-3], ":")
}

// Row reports one pattern and flowcell lane with its hit count per input
// file.
type Row struct {
	Pattern     string
	Annotations []string
	Lane        string
	Counts      []int
}

// Detect counts each pattern's hits per flowcell lane per file and returns
// the lanes seen in more than one file, ordered by pattern then lane.
func Detect(sets []*hit.Set) []Row {
	type key struct{ pattern, lane string }

	counts := make(map[key][]int)
	annotations := make(map[string][]string)

	for i, set := range sets {
		for _, h := range set.Hits {
			lane := FlowcellLane(h.Read1.Name)
			if lane == "" {
				continue
			}

			k := key{pattern: h.Pattern.Name, lane: lane}
			if counts[k] == nil {
				counts[k] = make([]int, len(sets))
			}
			counts[k][i]++

			if _, ok := annotations[h.Pattern.Name]; !ok {
				annotations[h.Pattern.Name] = h.Pattern.Annotations
			}
		}
	}

	var rows []Row
	for k, c := range counts {
		files := 0
		for _, n := range c {
			if n > 0 {
				files++
			}
		}
		if files < 2 {
			continue // the lane's hits sit in one file; nothing hopped
		}
		rows = append(rows, Row{
			Pattern:     k.pattern,
			Annotations: annotations[k.pattern],
			Lane:        k.lane,
			Counts:      c,
		})
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Pattern != rows[b].Pattern {
			return rows[a].Pattern < rows[b].Pattern
		}
		return rows[a].Lane < rows[b].Lane
	})

	return rows
}
