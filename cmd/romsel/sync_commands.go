package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"romsel/internal/logging"
	"romsel/internal/records"
	"romsel/internal/selection"
)

type syncFlags struct {
	romset    string
	selection string
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags syncFlags
	cmd := &cobra.Command{
		Use:   "add <records-file>",
		Short: "Copy listed roms (and their CHDs) from the romset into the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveRecordsFile(args[0])
			if err != nil {
				return err
			}
			romset, dest, err := ctx.resolveDirs(flags.romset, flags.selection, true)
			if err != nil {
				return err
			}
			return runSync(cmd, ctx, selection.OpAdd, func(s *selection.Synchronizer) error {
				return s.Add(file, romset, dest)
			})
		},
	}
	cmd.Flags().StringVar(&flags.romset, "romset", "", "Romset directory (overrides paths.romset_dir)")
	cmd.Flags().StringVar(&flags.selection, "selection", "", "Selection directory (overrides paths.selection_dir)")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var flags syncFlags
	cmd := &cobra.Command{
		Use:   "remove <records-file>",
		Short: "Delete listed roms from the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveRecordsFile(args[0])
			if err != nil {
				return err
			}
			_, dest, err := ctx.resolveDirs("", flags.selection, false)
			if err != nil {
				return err
			}
			return runSync(cmd, ctx, selection.OpRemove, func(s *selection.Synchronizer) error {
				return s.Remove(file, dest)
			})
		},
	}
	cmd.Flags().StringVar(&flags.selection, "selection", "", "Selection directory (overrides paths.selection_dir)")
	return cmd
}

func newKeepCommand(ctx *commandContext) *cobra.Command {
	var flags syncFlags
	cmd := &cobra.Command{
		Use:   "keep <records-file>",
		Short: "Delete selection roms that the records file does not list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveRecordsFile(args[0])
			if err != nil {
				return err
			}
			_, dest, err := ctx.resolveDirs("", flags.selection, false)
			if err != nil {
				return err
			}
			return runSync(cmd, ctx, selection.OpKeep, func(s *selection.Synchronizer) error {
				return s.Keep(file, dest)
			})
		},
	}
	cmd.Flags().StringVar(&flags.selection, "selection", "", "Selection directory (overrides paths.selection_dir)")
	return cmd
}

func runSync(cmd *cobra.Command, ctx *commandContext, operation string, fn func(*selection.Synchronizer) error) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	progress := newProgressPrinter(cmd.ErrOrStderr())
	sync := selection.New(nil, logger, selection.WithProgress(progress.handle))

	err = ctx.withSelectionLock(func() error {
		return fn(sync)
	})
	if err != nil {
		var parseErr *records.ParseError
		if errors.As(err, &parseErr) {
			logging.ErrorWithContext(logger, "records file rejected", "records_invalid",
				logging.String(logging.FieldOperation, operation),
				logging.String(logging.FieldPath, parseErr.Path),
				logging.Error(parseErr.Err),
				logging.String(logging.FieldErrorHint, "records must be ';' separated with a name column in the header"),
			)
		}
		return fmt.Errorf("%s: %w", operation, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: processed %d item(s)\n", operation, progress.count)
	return nil
}
