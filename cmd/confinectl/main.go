// confinectl lists and manages files inside a chosen root directory from the
// command line, with the same confinement rules as the HTTP API.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit signals a non-zero exit after the command has reported its own
// error on stderr.
var errExit = errors.New("exit")

// options holds the persistent flags.
type options struct {
	logLevel string
	json     bool
}

// run executes confinectl with args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			writeError(stderr, err)
		}
		return 1
	}
	return 0
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "confinectl",
		Short:         "List and manage files without leaving a chosen root",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"log level for diagnostics on stderr (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false,
		"print results as JSON")
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newMountsCmd(opts, stdout, stderr),
		newListCmd(opts, stdout, stderr),
		newRenameCmd(opts, stdout, stderr),
		newRemoveCmd(opts, stdout, stderr),
		newMoveCmd(opts, stdout, stderr),
		newMkdirCmd(opts, stdout, stderr),
	)
	return root
}
