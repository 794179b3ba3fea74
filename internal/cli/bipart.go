package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treesynth/pkg/pipeline"
)

// bipartOpts holds the command-line options for the bipart command.
type bipartOpts struct {
	output         string
	workers        int
	sharedEvidence bool
	includeInputs  bool
	noCache        bool
	refresh        bool
}

// bipartCommand creates the bipart command for summing bipartitions.
func (c *CLI) bipartCommand() *cobra.Command {
	opts := &bipartOpts{}

	cmd := &cobra.Command{
		Use:   "bipart [file.json]",
		Short: "Sum compatible bipartitions",
		Long: `Sum every pair of compatible bipartitions in a file.

A file with a "bipartitions" list sums all pairs. A file with "groups" sums
pairs drawn from different groups only. Flags override the [bipart] section
of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBipart(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.sharedEvidence, "shared-evidence", false, "only sum pairs whose ingroups or outgroups overlap")
	cmd.Flags().BoolVar(&opts.includeInputs, "include-inputs", false, "include the input bipartitions in the result")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runBipart sums the bipartitions in input and writes the JSON result.
func (c *CLI) runBipart(cmd *cobra.Command, input string, opts *bipartOpts) error {
	ctx := cmd.Context()

	bp := c.config.Bipart
	flags := cmd.Flags()
	if flags.Changed("workers") {
		bp.Workers = opts.workers
	}
	if flags.Changed("shared-evidence") {
		bp.SharedEvidence = opts.sharedEvidence
	}
	if flags.Changed("include-inputs") {
		bp.IncludeInputs = opts.includeInputs
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Sum(ctx, pipeline.SumOptions{
		InputPath: input,
		Bipart:    bp,
		Refresh:   opts.refresh,
		TTL:       c.config.Cache.TTL.Duration,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done("Sum finished")

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	if err := writeOutput(opts.output, res.Output); err != nil {
		return err
	}

	printSuccess("Summed %s", input)
	if res.Sum != nil {
		printStats([]stat{
			{res.Sum.Inputs, "inputs"},
			{len(res.Sum.Bipartitions), "sums"},
			{int(res.Sum.Comparisons), "comparisons"},
		}, false)
	} else {
		printStats(nil, true)
	}
	printFile(opts.output)
	return nil
}
