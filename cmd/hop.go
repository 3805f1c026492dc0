package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stjude/fuzzion2/internal/hit"
	"github.com/stjude/fuzzion2/internal/hop"
)

// hopCmd flags patterns hit from one flowcell lane in several samples
var hopCmd = &cobra.Command{
	Use:   "hop hits_filename1 hits_filename2 ...",
	Short: "Report possible index hopping across two or more hit files",
	Long: `Hop examines the hits in two or more hit files. A pattern hit from the
same flowcell lane in more than one file may be an instance of index hopping
rather than independent evidence; hop reports each such pattern and lane
with its per-file hit counts.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runHop,
}

func init() {
	RootCmd.AddCommand(hopCmd)
}

func runHop(cmd *cobra.Command, args []string) error {
	sets := make([]*hit.Set, 0, len(args))

	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return err
		}

		set, err := hit.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}

		sets = append(sets, set)
	}

	rows := hop.Detect(sets)

	out := bufio.NewWriter(os.Stdout)

	cols := []string{"fuzzhop " + Version, "flowcell lane"}
	for _, arg := range args {
		cols = append(cols, filepath.Base(arg))
	}
	cols = append(cols, sets[0].AnnotationHeadings...)

	if _, err := out.WriteString(strings.Join(cols, "\t") + "\n"); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(out, "%s\t%s", row.Pattern, row.Lane); err != nil {
			return err
		}
		for _, n := range row.Counts {
			if _, err := fmt.Fprintf(out, "\t%d", n); err != nil {
				return err
			}
		}
		for _, a := range row.Annotations {
			if _, err := out.WriteString("\t" + a); err != nil {
				return err
			}
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}

	return out.Flush()
}
