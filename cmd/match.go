package cmd

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stjude/fuzzion2/config"
	"github.com/stjude/fuzzion2/internal/engine"
	"github.com/stjude/fuzzion2/internal/hit"
	"github.com/stjude/fuzzion2/internal/input"
	"github.com/stjude/fuzzion2/internal/match"
	"github.com/stjude/fuzzion2/internal/pattern"
	"github.com/stjude/fuzzion2/internal/rank"
)

var (
	patternPath string
	rankPath    string
	fastqPath1  string
	fastqPath2  string
	ifastqPath  string
)

// matchCmd represents the match command, the fuzzy fusion finder itself
var matchCmd = &cobra.Command{
	Use:   "match [flags] [input_filename ...]",
	Short: "Match read pairs to fusion and ITD patterns, writing hits to stdout",
	Long: `Match scans paired-end reads against a catalog of junction patterns and
writes every read pair whose mates align, tolerating mismatches and indels,
across the junction region of some pattern.

Reads come from a pair of FASTQ files (--fastq1/--fastq2, either gzipped), an
interleaved FASTQ file (--ifastq, which may be /dev/stdin), or any mix of
unaligned BAM and FASTQ files named as positional arguments, whose types and
pairings are detected automatically.`,
	RunE: runMatch,
}

func init() {
	RootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringVar(&patternPath, "pattern", "", "name of pattern input file")
	matchCmd.Flags().StringVar(&rankPath, "rank", "", "name of binary input file containing the k-mer rank table")
	matchCmd.Flags().StringVar(&fastqPath1, "fastq1", "", "name of FASTQ Read 1 input file")
	matchCmd.Flags().StringVar(&fastqPath2, "fastq2", "", "name of FASTQ Read 2 input file")
	matchCmd.Flags().StringVar(&ifastqPath, "ifastq", "", "name of interleaved FASTQ input file (may be /dev/stdin)")

	matchCmd.Flags().Float64("maxrank", 95, "maximum rank percentile of minimizers")
	matchCmd.Flags().Float64("minbases", 90, "minimum percentile of matching bases")
	matchCmd.Flags().Int("maxins", 500, "maximum insert size in bases")
	matchCmd.Flags().Int("maxtrim", 5, "maximum bases the second read may sit ahead of the first")
	matchCmd.Flags().Int("minmins", 3, "minimum number of matching minimizers")
	matchCmd.Flags().Int("minov", 5, "minimum overlap in number of bases")
	matchCmd.Flags().Int("show", 1, "show best only (1) or all patterns (0) matching a read pair")
	matchCmd.Flags().Bool("single", false, "look for single-read matches when a pair has none")
	matchCmd.Flags().Int("threads", 8, "number of threads")
	matchCmd.Flags().Int("w", 5, "window length in number of bases")

	matchCmd.MarkFlagRequired("pattern")
	matchCmd.MarkFlagRequired("rank")

	// Bind the tunables to viper
	for _, name := range []string{
		"maxrank", "minbases", "maxins", "maxtrim", "minmins",
		"minov", "show", "single", "threads", "w",
	} {
		viper.BindPFlag("match."+name, matchCmd.Flags().Lookup(name))
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}

	mc := conf.Match
	if err := mc.Validate(); err != nil {
		return err
	}

	table, err := rank.Read(rankPath)
	if err != nil {
		return err
	}
	log.Infof("loaded %d-mer rank table from %s", table.K, rankPath)

	catalog, err := pattern.ReadCatalog(patternPath)
	if err != nil {
		return err
	}
	if len(catalog.Patterns) == 0 {
		return errors.Errorf("no patterns in %s", patternPath)
	}
	log.Infof("indexing %d patterns", len(catalog.Patterns))

	maxMinimizer := table.MaxMinimizer(mc.MaxRank)
	index := pattern.NewIndex(catalog.Patterns, mc.Window, table, maxMinimizer)

	source, err := openSource(args)
	if err != nil {
		return err
	}
	defer source.Close()

	matcher := match.New(match.Config{
		Window:       mc.Window,
		MaxMinimizer: maxMinimizer,
		MinBases:     mc.MinBases,
		MinMins:      mc.MinMins,
		MaxInsert:    mc.MaxInsert,
		MaxTrim:      mc.MaxTrim,
		MinOverlap:   mc.MinOverlap,
		BestOverall:  mc.Show == 1,
		FindSingle:   mc.Single,
	}, table, catalog.Patterns, index)

	out := os.Stdout

	if err := hit.WriteHeading(out, Version, catalog.AnnotationHeadings); err != nil {
		return err
	}

	eng := &engine.Engine{Matcher: matcher, Workers: mc.Threads}

	numReadPairs, err := eng.Run(source, out)
	if err != nil {
		return err
	}

	log.Infof("processed %d read pairs", numReadPairs)

	return hit.WriteReadPairs(out, numReadPairs)
}

// openSource picks the read-pair source from the explicit FASTQ flags or
// the auto-detected positional file list; mixing the two is an error.
func openSource(args []string) (input.PairReader, error) {
	switch {
	case len(args) > 0:
		if fastqPath1 != "" || fastqPath2 != "" || ifastqPath != "" {
			return nil, errors.New("FASTQ options cannot be combined with input file arguments")
		}
		return input.Open(args)

	case ifastqPath != "":
		if fastqPath1 != "" || fastqPath2 != "" {
			return nil, errors.New("--ifastq cannot be combined with --fastq1/--fastq2")
		}
		return input.OpenInterleavedFastq(ifastqPath)

	case fastqPath1 != "" && fastqPath2 != "":
		return input.OpenPairedFastq(fastqPath1, fastqPath2)

	default:
		return nil, errors.New("no input files specified")
	}
}
