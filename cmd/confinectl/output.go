package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/confine/internal/infrastructure/config"
	"github.com/GriffinCanCode/confine/internal/infrastructure/logging"
	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
)

// newOps builds filesystem ops from the environment configuration with a
// stderr logger at the requested level.
func newOps(opts *options) (*filesystem.FilesystemOps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.CLIConfig(opts.logLevel))
	if err != nil {
		return nil, err
	}
	return &filesystem.FilesystemOps{
		Logger:       logger.Component("confinectl"),
		AllowedRoots: cfg.Filesystem.AllowedRoots,
		MountBases:   cfg.Filesystem.MountBases,
	}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeError prints "error [kind]: message". Errors without a filesystem
// kind are reported as usage errors.
func writeError(w io.Writer, err error) {
	kind := string(filesystem.KindOf(err))
	if kind == "" {
		kind = string(filesystem.KindInvalidArgument)
	}
	fmt.Fprintf(w, "error [%s]: %v\n", kind, err) //nolint:errcheck // best-effort stderr
}

// fail reports err together with whatever the outcome left behind.
func fail(stderr io.Writer, err error, outcome *filesystem.Outcome) error {
	writeError(stderr, err)
	if outcome != nil && outcome.State == filesystem.StatePartial {
		fmt.Fprintf(stderr, "partial: left behind %s\n", strings.Join(outcome.Residual, ", ")) //nolint:errcheck // best-effort stderr
	}
	return errExit
}

// report prints the outcome of a successful mutation.
func report(opts *options, stdout io.Writer, outcome *filesystem.Outcome) error {
	if opts.json {
		return writeJSON(stdout, outcome)
	}
	_, err := fmt.Fprintln(stdout, outcome.State)
	return err
}
