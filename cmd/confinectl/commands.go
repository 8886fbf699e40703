package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/confine/internal/providers/filesystem"
)

func newMountsCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mounts",
		Short: "List candidate mount points for removable media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			m := &filesystem.MountOps{FilesystemOps: ops}
			mounts := m.List(cmd.Context())
			if opts.json {
				return writeJSON(stdout, mounts)
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			for _, mp := range mounts {
				fmt.Fprintf(tw, "%s\t%s\n", mp.Label, mp.Path) //nolint:errcheck // flushed below
			}
			return tw.Flush()
		},
	}
}

func newListCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var listOpts filesystem.ListOptions
	cmd := &cobra.Command{
		Use:     "ls ROOT",
		Short:   "Recursively list regular files under ROOT",
		Aliases: []string{"list"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			d := &filesystem.DirectoryOps{FilesystemOps: ops}
			files, err := d.List(cmd.Context(), args[0], listOpts)
			if err != nil {
				return fail(stderr, err, nil)
			}
			if opts.json {
				return writeJSON(stdout, files)
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, f := range files {
				if listOpts.DetectMIME {
					fmt.Fprintf(tw, "%d\t%s\t%s\t\n", f.Size, f.MIMEType, f.RelativePath) //nolint:errcheck // flushed below
				} else {
					fmt.Fprintf(tw, "%d\t%s\t\n", f.Size, f.RelativePath) //nolint:errcheck // flushed below
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&listOpts.Pattern, "pattern", "", "only list paths matching this glob (e.g. '**/*.jpg')")
	cmd.Flags().BoolVar(&listOpts.DetectMIME, "mime", false, "detect each file's content type")
	return cmd
}

func newRenameCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ROOT PATH NEW_NAME",
		Short: "Rename a file in place; never overwrites",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			o := &filesystem.OperationsOps{FilesystemOps: ops}
			if err := o.Rename(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return fail(stderr, err, nil)
			}
			return report(opts, stdout, &filesystem.Outcome{State: filesystem.StateApplied})
		},
	}
}

func newRemoveCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ROOT PATH",
		Short:   "Delete a regular file",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			o := &filesystem.OperationsOps{FilesystemOps: ops}
			if err := o.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return fail(stderr, err, nil)
			}
			return report(opts, stdout, &filesystem.Outcome{State: filesystem.StateApplied})
		},
	}
}

func newMoveCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var createDir bool
	cmd := &cobra.Command{
		Use:   "mv ROOT FROM TO_DIR",
		Short: "Move a file into a directory inside ROOT; never overwrites",
		Long: `Move a file into a directory inside ROOT, keeping its name.

TO_DIR is relative to ROOT; "", "." and "/" all mean ROOT itself. With
--create-dir a missing TO_DIR is created first. If the move then fails the
created directories are reported and left in place.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			o := &filesystem.OperationsOps{FilesystemOps: ops}
			outcome, err := o.Move(cmd.Context(), args[0], args[1], args[2], createDir)
			if err != nil {
				return fail(stderr, err, outcome)
			}
			return report(opts, stdout, outcome)
		},
	}
	cmd.Flags().BoolVar(&createDir, "create-dir", false, "create TO_DIR and missing parents")
	return cmd
}

func newMkdirCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir ROOT DIR",
		Short: "Create DIR and any missing parents inside ROOT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(opts)
			if err != nil {
				return err
			}
			d := &filesystem.DirectoryOps{FilesystemOps: ops}
			outcome, err := d.CreateFolder(cmd.Context(), args[0], args[1])
			if err != nil {
				return fail(stderr, err, outcome)
			}
			return report(opts, stdout, outcome)
		},
	}
}
