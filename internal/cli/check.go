package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

// checkOpts holds options for the check command.
type checkOpts struct {
	strict  bool
	orphans bool
}

// checkCommand creates the check command for reporting link problems
// without opening the view.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{}

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report broken links and unreadable notes",
		Long: `Check builds the graph for a notes directory and lists every dangling
reference, self-reference, duplicate note and unreadable file.

With --strict the command fails when any problem is found, which makes it
usable as a pre-commit hook or CI step.`,
		Example: `  # Check the current directory
  notegraph check

  # Fail on any broken link
  notegraph check ~/notes --strict

  # Also list notes without any links
  notegraph check --orphans`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), rootDir(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when problems are found")
	cmd.Flags().BoolVar(&opts.orphans, "orphans", false, "list notes without links")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, dir string, opts checkOpts) error {
	res, err := c.buildNotes(ctx, c.newRunner(cache.NewNull()), dir)
	if err != nil {
		return err
	}

	printInfo("Checked %s", displayRoot(res.Root))
	printStats(res.Stats)

	for _, d := range res.Report.All() {
		if d.Kind.Informational() && !opts.orphans {
			continue
		}
		printDiagnostic(d)
	}

	if n := res.Report.Count(notegraph.KindOrphan); n > 0 && !opts.orphans {
		printDetail("%d notes have no links (--orphans to list them)", n)
	}

	problems := res.Report.Problems()
	if problems == 0 {
		printSuccess("No problems found")
		printNextStep("Open the graph", "notegraph "+dir)
		return nil
	}
	printWarning("%d problems found", problems)
	if opts.strict {
		return errors.New(errors.ErrCodeInvalidArgument, "%d problems in %s", problems, res.Root)
	}
	return nil
}
