// Package minimizer partitions sequences into fixed-length windows and
// extracts each window's rank minimizer.
package minimizer

import (
	"github.com/stjude/fuzzion2/internal/kmer"
	"github.com/stjude/fuzzion2/internal/rank"
)

// Window holds one window's minimizer: the smallest k-mer rank observed in
// the window, and the offset of the first base of the k-mer at which that
// rank was first seen.
type Window struct {
	Minimizer uint32
	Offset    int
}

// WindowID returns the id of the window containing the k-mer starting at
// startIndex for windows of length w.
func WindowID(startIndex, w int) int {
	return startIndex / w
}

// Windows scans seq and returns one Window per w-base block that contains at
// least one fully formed k-mer. Ties within a window go to the earliest
// offset. Sequences shorter than k yield no windows.
func Windows(seq string, w int, table *rank.Table) []Window {
	if w < 1 {
		panic("invalid minimizer window length")
	}

	var windows []Window

	currentID := -1
	var currentMin uint32
	currentOffset := -1

	kmer.Each(seq, table.K, func(km uint32, startIndex int) bool {
		r := table.Rank[km]
		id := WindowID(startIndex, w)

		if id == currentID {
			if r < currentMin {
				currentMin = r
				currentOffset = startIndex
			}
			return true
		}

		// first k-mer of a new window
		if currentID >= 0 {
			windows = append(windows, Window{Minimizer: currentMin, Offset: currentOffset})
		}

		currentID = id
		currentMin = r
		currentOffset = startIndex

		return true
	})

	if currentID >= 0 {
		windows = append(windows, Window{Minimizer: currentMin, Offset: currentOffset})
	}

	return windows
}
