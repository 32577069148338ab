package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"romsel/internal/selection"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var flags syncFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <records-file>",
		Short: "Show where each listed rom currently lives without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveRecordsFile(args[0])
			if err != nil {
				return err
			}
			romset, dest, err := ctx.resolveDirs(flags.romset, flags.selection, false)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			items, err := selection.New(nil, logger).Status(file, romset, dest)
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, items)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Records file lists no roms")
				return nil
			}
			fmt.Fprintln(out, renderItemTable(items))
			for _, line := range summarizeItems(items, romset != "", shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.romset, "romset", "", "Romset directory (overrides paths.romset_dir)")
	cmd.Flags().StringVar(&flags.selection, "selection", "", "Selection directory (overrides paths.selection_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func renderItemTable(items []selection.ItemStatus) string {
	headers := []string{"#", "Rom", "Romset", "Selection", "CHD", "Action"}
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Zip,
			yesNo(item.InRomset),
			yesNo(item.InSelection),
			chdLabel(item),
			itemAction(item),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}

func chdLabel(item selection.ItemStatus) string {
	switch {
	case item.CompanionInSelection:
		return "copied"
	case item.HasCompanion:
		return "available"
	default:
		return "-"
	}
}

func itemAction(item selection.ItemStatus) string {
	switch {
	case item.InSelection:
		return "keep"
	case item.InRomset:
		return "copy"
	default:
		return "missing"
	}
}

func summarizeItems(items []selection.ItemStatus, romsetKnown, colorize bool) []string {
	var selected, pending, missing int
	for _, item := range items {
		switch {
		case item.InSelection:
			selected++
		case item.InRomset:
			pending++
		default:
			missing++
		}
	}
	lines := []string{
		renderStatusLine("Records", statusInfo, strconv.Itoa(len(items)), colorize),
		renderStatusLine("In selection", statusOK, fmt.Sprintf("%d of %d", selected, len(items)), colorize),
	}
	if !romsetKnown {
		return lines
	}
	pendingKind := statusOK
	if pending > 0 {
		pendingKind = statusWarn
	}
	lines = append(lines, renderStatusLine("Pending copy", pendingKind, strconv.Itoa(pending), colorize))
	missingKind := statusOK
	if missing > 0 {
		missingKind = statusError
	}
	lines = append(lines, renderStatusLine("Missing in romset", missingKind, strconv.Itoa(missing), colorize))
	return lines
}
