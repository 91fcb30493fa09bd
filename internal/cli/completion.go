package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notegraph/pkg/discover"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for notegraph.

Bash:
  $ source <(notegraph completion bash)

Zsh:
  $ notegraph completion zsh > "${fpath[1]}/_notegraph"

Fish:
  $ notegraph completion fish > ~/.config/fish/completions/notegraph.fish

PowerShell:
  PS> notegraph completion powershell | Out-String | Invoke-Expression

Besides commands and flags, completions offer directories for [dir] and
note names for --highlight.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeDir completes the optional notes directory argument.
func completeDir(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeNoteNames lists the notes under the directory given on the
// command line that start with toComplete.
func (c *CLI) completeNoteNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	found, err := discover.Find(ctx, rootDir(args), c.Config.Discovery.Options())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, f := range found.Files {
		if id := discover.NoteID(f); strings.HasPrefix(id, toComplete) {
			names = append(names, id)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
