package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storage-sim/tracegen/report"
	"github.com/storage-sim/tracegen/sim"
	"github.com/storage-sim/tracegen/trace"
)

// genOptions collects the generation flags for one subcommand. gen and
// kdgen each own a set; pflag writes a registration's default into the
// bound variable immediately, so sharing one set would let the command
// registered last clobber the other's defaults.
type genOptions struct {
	addresses   int64   // footprint size (number of unique addresses)
	length      int64   // length of trace (in addresses)
	seed        int64   // RNG seed
	blockSize   int64   // size of a block in bytes
	ird         string  // IRD distribution spec
	irm         string  // IRM / popularity distribution spec
	sizeDist    string  // request size distribution spec
	fracRead    float64 // fraction of requests that are reads
	pIRM        float64 // probability that a trace step is a pure IRM draw
	groups      int     // number of address groups (kdgen)
	output      string  // output path ("-" or empty for stdout)
	dbPath      string  // optional SQLite sink path
	profilePath string  // optional YAML profile path
}

var (
	genOpts   genOptions
	kdgenOpts genOptions

	logLevel string // log verbosity level

	// stats flags
	jsonOut bool
	topK    int
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tracegen",
	Short: "Synthetic block-level storage trace generator",
	Long: "tracegen synthesizes block storage access traces that reproduce\n" +
		"configurable locality (inter-reference distance) and popularity\n" +
		"skew (independent reference model) for cache and storage simulation.",
}

// genCmd generates a blended single-group trace.
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a trace blending locality scheduling with popularity draws",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		p := profileFromFlags(&genOpts)
		p.Groups = 0

		ird, err := sim.ParseIRD(p.IRD)
		if err != nil {
			logrus.Fatalf("IRD distribution: %v", err)
		}
		irm, err := sim.BuildDistribution(p.IRM, p.Addresses, sim.ModeAddress)
		if err != nil {
			logrus.Fatalf("IRM distribution: %v", err)
		}
		sizeDist, err := sim.ParseSizeDist(p.SizeDist)
		if err != nil {
			logrus.Fatalf("size distribution: %v", err)
		}

		logrus.Infof("generating trace: addresses=%d length=%d p_irm=%v seed=%d",
			p.Addresses, p.Length, p.PIRM, p.Seed)

		rng := sim.NewGenerationKey(p.Seed).NewRNG()
		addrs, err := sim.GenerateBlended(p.Addresses, p.Length, p.PIRM, ird, irm, rng)
		if err != nil {
			logrus.Fatalf("generation failed: %v", err)
		}
		emit(sim.Augment(addrs, p.RWRatio, sizeDist, p.BlockSize, rng), p.Output, genOpts.dbPath)
	},
}

// kdgenCmd generates a grouped multi-tier trace.
var kdgenCmd = &cobra.Command{
	Use:   "kdgen",
	Short: "Generate a trace from heterogeneous address groups",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		p := profileFromFlags(&kdgenOpts)
		if !p.Grouped() {
			logrus.Fatalf("kdgen requires --groups > 1, got %d", p.Groups)
		}

		irds, err := sim.ParseIRDList(p.IRD, p.Groups)
		if err != nil {
			logrus.Fatalf("IRD distributions: %v", err)
		}
		popDist, err := sim.BuildDistribution(p.IRM, p.Addresses, sim.ModePopularity)
		if err != nil {
			logrus.Fatalf("popularity distribution: %v", err)
		}
		sizeDist, err := sim.ParseSizeDist(p.SizeDist)
		if err != nil {
			logrus.Fatalf("size distribution: %v", err)
		}

		logrus.Infof("generating grouped trace: addresses=%d length=%d groups=%d seed=%d",
			p.Addresses, p.Length, p.Groups, p.Seed)

		rng := sim.NewGenerationKey(p.Seed).NewRNG()
		pop := sim.DerivePopularities(popDist, p.Groups, rng)
		logrus.Infof("group popularities: %v", pop)

		addrs, err := sim.GenerateGrouped(p.Addresses, p.Length, irds, pop, rng)
		if err != nil {
			logrus.Fatalf("generation failed: %v", err)
		}
		emit(sim.Augment(addrs, p.RWRatio, sizeDist, p.BlockSize, rng), p.Output, kdgenOpts.dbPath)
	},
}

// statsCmd summarizes an existing trace file.
var statsCmd = &cobra.Command{
	Use:   "stats [trace-file]",
	Short: "Summarize a generated trace (footprint, sizes, hot offsets)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				logrus.Fatalf("opening trace: %v", err)
			}
			defer f.Close()
			in = f
		}

		entries, err := trace.ReadAll(in)
		if err != nil {
			logrus.Fatalf("reading trace: %v", err)
		}
		summary := report.Summarize(entries, topK)

		if jsonOut {
			data, err := summary.JSON()
			if err != nil {
				logrus.Fatalf("encoding summary: %v", err)
			}
			fmt.Println(string(data))
			return
		}
		fmt.Print(summary.String())
	},
}

// profileFromFlags assembles the run profile, letting an explicit YAML
// profile take precedence over individual flags.
func profileFromFlags(o *genOptions) *sim.Profile {
	if o.profilePath != "" {
		p, err := sim.LoadProfile(o.profilePath)
		if err != nil {
			logrus.Fatalf("loading profile: %v", err)
		}
		return p
	}
	p := &sim.Profile{
		Addresses: o.addresses,
		Length:    o.length,
		Seed:      o.seed,
		BlockSize: o.blockSize,
		PIRM:      o.pIRM,
		IRD:       o.ird,
		IRM:       o.irm,
		Groups:    o.groups,
		RWRatio:   o.fracRead,
		SizeDist:  o.sizeDist,
		Output:    o.output,
	}
	if err := p.Validate(); err != nil {
		logrus.Fatalf("%v", err)
	}
	return p
}

// emit writes entries to the configured line sink and, when requested,
// mirrors them into a SQLite database.
func emit(entries []trace.Entry, outPath, dbPath string) {
	var out io.Writer = os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			logrus.Fatalf("creating output: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := trace.NewWriter(out).WriteAll(entries); err != nil {
		logrus.Fatalf("writing trace: %v", err)
	}

	if dbPath != "" {
		sink, err := trace.OpenSQLiteSink(dbPath)
		if err != nil {
			logrus.Fatalf("opening trace database: %v", err)
		}
		defer sink.Close()
		if err := sink.WriteAll(entries); err != nil {
			logrus.Fatalf("writing trace database: %v", err)
		}
		logrus.Infof("wrote %d entries to %s", len(entries), dbPath)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addGenFlags registers the flags shared by both generation commands
// into the command's own option set. A profile supplies every knob, so
// the required flags are "flag or profile" groups.
func addGenFlags(cmd *cobra.Command, o *genOptions) {
	cmd.Flags().Int64VarP(&o.addresses, "addresses", "m", 0, "Footprint size (number of unique addresses)")
	cmd.Flags().Int64VarP(&o.length, "length", "n", 0, "Length of trace (in addresses)")
	cmd.Flags().Int64VarP(&o.seed, "seed", "s", 42, "RNG seed")
	cmd.Flags().Int64VarP(&o.blockSize, "blocksize", "b", 4096, "Size of a block in bytes")
	cmd.Flags().Float64VarP(&o.fracRead, "rwratio", "r", 1, "Fraction of requests that are reads (vs writes)")
	cmd.Flags().StringVarP(&o.sizeDist, "sizedist", "z", "1:1", "Request size distribution: weights:sizes, e.g. 1,1,1:1,3,4")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "Also write entries to a SQLite database at this path")
	cmd.Flags().StringVar(&o.profilePath, "profile", "", "YAML profile describing the full run (overrides flags)")
	cmd.MarkFlagsOneRequired("addresses", "profile")
	cmd.MarkFlagsOneRequired("length", "profile")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addGenFlags(genCmd, &genOpts)
	genCmd.Flags().Float64VarP(&genOpts.pIRM, "p-irm", "p", 0, "Probability that a step is a pure popularity draw (0..1)")
	genCmd.Flags().StringVarP(&genOpts.ird, "ird", "f", "b", "IRD distribution: preset letter b..f or fgen:k,epsilon,spikes...")
	genCmd.Flags().StringVarP(&genOpts.irm, "irm", "g", "zipf:1.2,20", "IRM distribution: zipf:alpha,n | pareto:xm,alpha,n | uniform:max | normal:mu,sigma | weight list")

	addGenFlags(kdgenCmd, &kdgenOpts)
	kdgenCmd.Flags().IntVarP(&kdgenOpts.groups, "groups", "k", 0, "Number of address groups")
	kdgenCmd.Flags().StringVarP(&kdgenOpts.ird, "ird", "f", "", "Semicolon-separated IRD specs, one per group, e.g. \"d;b\"")
	kdgenCmd.Flags().StringVarP(&kdgenOpts.irm, "irm", "g", "", "Popularity spec for all groups: canonical spec or weight list, e.g. \"2,8\"")
	kdgenCmd.MarkFlagsOneRequired("groups", "profile")

	statsCmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the summary as JSON")
	statsCmd.Flags().IntVar(&topK, "top", 10, "Number of hottest offsets to report")

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(kdgenCmd)
	rootCmd.AddCommand(statsCmd)
}
