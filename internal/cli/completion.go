package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/pipeline"
	"github.com/matzehuels/treesynth/pkg/synth"
)

var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for treesynth.

  source <(treesynth completion bash)
  treesynth completion zsh > "${fpath[1]}/_treesynth"
  treesynth completion fish > ~/.config/fish/completions/treesynth.fish
  treesynth completion powershell | Out-String | Invoke-Expression

Strategy, format and edge type flags complete their accepted values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerSynthCompletions attaches value completion to the synth flags.
func registerSynthCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(synth.Strategies, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", completeList(pipeline.Formats))

	types := edgeTypeNames()
	_ = cmd.RegisterFlagCompletionFunc("descent", completeList(types))
	_ = cmd.RegisterFlagCompletionFunc("candidates", completeList(types))
}

// completeList completes the last element of a comma-separated value.
func completeList(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix := ""
		if i := strings.LastIndexByte(toComplete, ','); i >= 0 {
			prefix = toComplete[:i+1]
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, prefix+v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

func edgeTypeNames() []string {
	var names []string
	for t := dag.SourceTree; t <= dag.Synth; t++ {
		names = append(names, t.String())
	}
	return names
}
