package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treesynth/pkg/pipeline"
)

// synthOpts holds the command-line options for the synth command.
type synthOpts struct {
	output       string
	formats      string
	root         uint64
	strategy     string
	threshold    int
	minAbsorb    int
	taxonomyRank int
	descent      []string
	candidates   []string
	detailed     bool
	noCache      bool
	refresh      bool
}

// synthCommand creates the synth command for building a tree from a
// candidate graph.
func (c *CLI) synthCommand() *cobra.Command {
	opts := &synthOpts{}

	cmd := &cobra.Command{
		Use:   "synth [graph.json]",
		Short: "Synthesize a tree from a candidate graph",
		Long: `Synthesize a single rooted tree from a candidate graph.

Each vertex keeps the highest ranked conflict-free set of incoming candidate
edges. Flags override the [synthesis] section of the config file.

With a single format and no --output the result is written to stdout.
Multiple formats are written next to the input (or the --output base path).`,
		Example: `  # Newick to stdout
  treesynth synth candidates.json

  # Newick, SVG and selections next to the input
  treesynth synth candidates.json -f newick,svg,selections

  # Baseline strategy from an explicit root
  treesynth synth candidates.json --strategy baseline --root 805080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSynth(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().Uint64Var(&opts.root, "root", 0, "external id of the root vertex (default: detected)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "selection strategy: rank-aware or baseline")
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "largest candidate count solved exactly")
	cmd.Flags().IntVar(&opts.minAbsorb, "min-absorb", 0, "smallest group of lower ranked edges that may absorb a saved edge")
	cmd.Flags().IntVar(&opts.taxonomyRank, "taxonomy-rank", 0, "rank given to taxonomy edges")
	cmd.Flags().StringSliceVar(&opts.descent, "descent", nil, "edge types followed from the root")
	cmd.Flags().StringSliceVar(&opts.candidates, "candidates", nil, "edge types eligible for selection")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids, sources and ranks in dot/svg labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	registerSynthCompletions(cmd)

	return cmd
}

// runSynth runs the synthesis pipeline and writes every requested artifact.
func (c *CLI) runSynth(cmd *cobra.Command, input string, opts *synthOpts) error {
	ctx := cmd.Context()

	syn := c.config.Synthesis
	flags := cmd.Flags()
	if flags.Changed("root") {
		syn.Root = opts.root
	}
	if flags.Changed("strategy") {
		syn.Strategy = opts.strategy
	}
	if flags.Changed("threshold") {
		syn.ExactThreshold = opts.threshold
	}
	if flags.Changed("min-absorb") {
		syn.MinAbsorb = opts.minAbsorb
	}
	if flags.Changed("taxonomy-rank") {
		syn.TaxonomyRank = opts.taxonomyRank
	}
	if flags.Changed("descent") {
		syn.Descent = opts.descent
	}
	if flags.Changed("candidates") {
		syn.Candidates = opts.candidates
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	formats := parseFormats(opts.formats)
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		GraphPath: input,
		Synthesis: syn,
		Formats:   formats,
		Detailed:  opts.detailed,
		Refresh:   opts.refresh,
		TTL:       c.config.Cache.TTL.Duration,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done("Synthesis finished")

	if err := c.writeArtifacts(cmd, input, opts.output, formats, res.Artifacts); err != nil {
		return err
	}

	printSuccess("Synthesized %s", input)
	if s := res.Synthesis; s != nil {
		printStats([]stat{
			{res.Stats.VertexCount, "vertices"},
			{res.Stats.EdgeCount, "edges"},
			{s.Stats.Selected, "selected"},
			{s.Stats.Absorbed, "absorbed"},
		}, false)
		printKeyValue("strategy", string(s.Strategy))
		printKeyValue("run", s.RunID)
		if s.Stats.Approximate > 0 {
			printWarning("%d vertices used the greedy solver", s.Stats.Approximate)
		}
		if n := len(s.Defects); n > 0 {
			printWarning("%d candidate edges dropped for missing annotations", n)
		}
	} else {
		printStats(nil, true)
	}
	return nil
}

// writeArtifacts writes a single artifact to stdout or --output, or several
// artifacts to files derived from basePath.
func (c *CLI) writeArtifacts(cmd *cobra.Command, input, output string, formats []string, artifacts map[string][]byte) error {
	if len(formats) == 1 && output == "" {
		_, err := cmd.OutOrStdout().Write(artifacts[formats[0]])
		return err
	}
	if len(formats) == 1 {
		if err := writeOutput(output, artifacts[formats[0]]); err != nil {
			return err
		}
		printFile(output)
		return nil
	}

	base := basePath(output, input)
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return fmt.Errorf("no %s output produced", f)
		}
		path := base + formatExt[f]
		if err := writeOutput(path, data); err != nil {
			return err
		}
		c.Logger.Debug("wrote artifact", "format", f, "path", path, "bytes", len(data))
		printFile(path)
	}
	return nil
}
