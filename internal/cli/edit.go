package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

func (a *app) newAddCommand() *cobra.Command {
	var (
		count  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "add <document> <container>",
		Short: "Append rows to a region",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			session, err := a.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			defer session.Close()
			for i := 0; i < count; i++ {
				if _, err := session.Add(cmd.Context(), args[1]); err != nil {
					return err
				}
			}
			return writeDocument(cmd, session, output)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of rows to add")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) newRemoveCommand() *cobra.Command {
	var (
		yes    bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "remove <document> <container> <position>",
		Short: "Remove a visible row from a region",
		Long:  "Remove the row at a zero based position among the visible rows. Rows holding values ask for confirmation when the region enables it.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			session, err := a.openDocument(cmd, args[0], orchestrator.WithConfirmer(a.confirmerFor(yes)))
			if err != nil {
				return err
			}
			defer session.Close()
			removed, err := removeRow(cmd.Context(), session, args[1], position)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.ErrOrStderr(), "row %d of %s kept: removal declined\n", position, args[1])
			}
			return writeDocument(cmd, session, output)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the removal confirmation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) newMoveCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "move <document> <container> <from> <to>",
		Short: "Reorder a row within a sortable region",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			to, err := parsePosition(args[3])
			if err != nil {
				return err
			}
			session, err := a.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			defer session.Close()
			if err := session.Move(cmd.Context(), args[1], from, to); err != nil {
				return err
			}
			return writeDocument(cmd, session, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid position %q", raw)
	}
	return n, nil
}

// removeRow removes a visible row and reports whether it actually left the
// region. A declined confirmation or a vetoing callback keeps it.
func removeRow(ctx context.Context, session *orchestrator.Session, id string, position int) (bool, error) {
	editor, err := session.Editor(id)
	if err != nil {
		return false, err
	}
	before := len(editor.VisibleRows())
	if err := session.Remove(ctx, id, position); err != nil {
		return false, err
	}
	return len(editor.VisibleRows()) < before, nil
}
