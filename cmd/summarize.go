package cmd

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stjude/fuzzion2/config"
	"github.com/stjude/fuzzion2/internal/hit"
	"github.com/stjude/fuzzion2/internal/summary"
)

// summarizeCmd reduces one sample's hits to per-pattern counts
var summarizeCmd = &cobra.Command{
	Use:   "summarize --id=string [hits_filename ...]",
	Short: "Summarize fuzzion2 hits per pattern for one sample",
	Long: `Summarize reads a hit file and writes one line per pattern with the
sample id, the read-pair count, and how many hits classified as strong+,
strong-, weak and dup.`,
	RunE: runSummarize,
}

func init() {
	RootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().String("id", "", "identifies the sample")
	summarizeCmd.Flags().Int("minstrong", hit.DefaultMinStrong, "minimum overlap for a strong match")

	summarizeCmd.MarkFlagRequired("id")

	viper.BindPFlag("summary.id", summarizeCmd.Flags().Lookup("id"))
	viper.BindPFlag("summary.minstrong", summarizeCmd.Flags().Lookup("minstrong"))
}

func runSummarize(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}

	set, err := readHitInputs(args)
	if err != nil {
		return err
	}

	rows := summary.Summarize(set, conf.Summary.ID, conf.Summary.MinStrong)

	out := bufio.NewWriter(os.Stdout)
	if err := summary.Write(out, Version, set.AnnotationHeadings, rows); err != nil {
		return err
	}
	return out.Flush()
}
