package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/TrevorS/canopy"
	"github.com/TrevorS/canopy/internal/config"
	"github.com/TrevorS/canopy/internal/dataset"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type clusterOptions struct {
	input            string
	configFile       string
	t1, t2           float64
	numClusters      int
	seed             int64
	metric           string
	workers          int
	noReplaceMissing bool
	stream           bool
	assignments      bool
	evaluate         bool
	verbose          bool
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "Canopy clustering for CSV data",
		Long: `canopy groups records into overlapping canopies using two distance
thresholds: records closer than T2 to a canopy join it, and every canopy
within T1 of a record is reported as one of its memberships.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newClusterCmd(), newVersionCmd())
	return rootCmd
}

func newClusterCmd() *cobra.Command {
	opts := &clusterOptions{}
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a CSV file and print the canopies",
		Long: `Cluster a CSV file. The first row names the attributes; columns whose
values all parse as numbers are numeric, the rest are categorical. "?" and
empty cells are missing.

Flags override values from --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "CSV file to cluster")
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	f.Float64Var(&opts.t2, "t2", canopy.DefaultT2Setting, "inner radius; < 0 uses the std. dev. heuristic")
	f.Float64Var(&opts.t1, "t1", canopy.DefaultT1Setting, "outer radius; < 0 is a multiplier of T2")
	f.IntVarP(&opts.numClusters, "num-clusters", "N", -1, "number of canopies to keep; < 0 lets T2 decide")
	f.Int64Var(&opts.seed, "seed", 1, "random seed for shuffling and padding")
	f.StringVar(&opts.metric, "metric", "euclidean", "euclidean, manhattan, chebyshev or minkowski")
	f.IntVar(&opts.workers, "workers", 0, "goroutines for membership passes; 0 uses all CPUs")
	f.BoolVar(&opts.noReplaceMissing, "no-replace-missing", false, "don't impute missing values before clustering")
	f.BoolVar(&opts.stream, "stream", false, "feed records one at a time in file order instead of batch fitting")
	f.BoolVar(&opts.assignments, "assignments", false, "print the canopy memberships of every record")
	f.BoolVar(&opts.evaluate, "evaluate", false, "print per-canopy homogeneity and overlap groups")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "canopy %s\n", version)
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			}
			return nil
		},
	}
}

// fileConfig loads --config when given and applies the flags the user set
// explicitly on top of it.
func fileConfig(cmd *cobra.Command, opts *clusterOptions) (*config.FileConfig, error) {
	fc := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		fc = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("t2") {
		fc.T2 = opts.t2
	}
	if flags.Changed("t1") {
		fc.T1 = opts.t1
	}
	if flags.Changed("num-clusters") {
		fc.NumClusters = opts.numClusters
	}
	if flags.Changed("seed") {
		fc.Seed = opts.seed
	}
	if flags.Changed("metric") {
		fc.Metric = opts.metric
	}
	if flags.Changed("workers") {
		fc.Workers = opts.workers
	}
	if opts.noReplaceMissing {
		fc.DontReplaceMissing = true
	}
	if opts.verbose {
		fc.LogLevel = "debug"
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	return fc, nil
}

func runCluster(cmd *cobra.Command, opts *clusterOptions) error {
	ds, err := dataset.LoadFile(opts.input)
	if err != nil {
		return err
	}

	fc, err := fileConfig(cmd, opts)
	if err != nil {
		return err
	}
	cfg, err := fc.ToConfig(ds.Schema, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c, err := canopy.New(ds.Schema, cfg)
	if err != nil {
		return err
	}

	var result *canopy.Result
	if opts.stream {
		for i, r := range ds.Records {
			if err := c.Update(r); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}
		result = c.Finalize()
	} else {
		result, err = c.Fit(ds.Records)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, result.String())
	if len(result.Canopies) == 0 {
		return nil
	}

	if opts.assignments {
		if err := printAssignments(out, c, ds.Records); err != nil {
			return err
		}
	}
	if opts.evaluate {
		if err := printEvaluation(out, c, result, ds.Records); err != nil {
			return err
		}
	}
	return nil
}

func printAssignments(w io.Writer, c *canopy.Clusterer, records []canopy.Record) error {
	cover, err := c.Cover(records)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Assignments")
	fmt.Fprintln(w, "===========")
	for i := range cover.NumRecords() {
		fmt.Fprintf(w, "%d: %s\n", i, cover.Membership(i))
	}
	fmt.Fprintf(w, "\nCandidate pairs: %d of %d\n\n", cover.CandidatePairs(), allPairs(cover.NumRecords()))
	return nil
}

func printEvaluation(w io.Writer, c *canopy.Clusterer, result *canopy.Result, records []canopy.Record) error {
	quality, err := c.Evaluate(records)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Homogeneity")
	fmt.Fprintln(w, "===========")
	for _, q := range quality {
		fmt.Fprintf(w, "Cluster %d: size %d, pairwise %.4f, to center %.4f\n",
			q.Canopy, q.Size, q.Pairwise, q.ToCenter)
	}

	groups, err := canopy.Groups(result)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nOverlap groups: %d\n", len(groups))
	for i, g := range groups {
		fmt.Fprintf(w, "Group %d: %v\n", i, g)
	}
	return nil
}

func allPairs(n int) uint64 {
	return uint64(n) * uint64(max(n-1, 0)) / 2
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
