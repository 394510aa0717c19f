package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/internal/prompt"
	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

const (
	actionAdd    = "Add a row"
	actionRemove = "Remove a row"
	actionMove   = "Move a row"
	actionList   = "List regions"
	actionSave   = "Save and quit"
	actionQuit   = "Quit without saving"
)

var sessionActions = []string{actionAdd, actionRemove, actionMove, actionList, actionSave, actionQuit}

func (a *app) newSessionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "session <document>",
		Short: "Edit the rows of a document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := a.promptDriver()
			session, err := a.openDocument(cmd, args[0], orchestrator.WithConfirmer(promptConfirmer(driver)))
			if err != nil {
				return err
			}
			defer session.Close()
			if len(session.IDs()) == 0 {
				return errors.New("document has no row regions")
			}

			save, err := runSession(cmd, driver, session)
			if err != nil {
				return err
			}
			if !save {
				return driver.Info(cmd.Context(), "changes discarded")
			}
			return writeDocument(cmd, session, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// runSession loops over the action menu until the user saves or quits.
func runSession(cmd *cobra.Command, driver prompt.Driver, session *orchestrator.Session) (bool, error) {
	ctx := cmd.Context()
	for {
		choice, err := driver.Select(ctx, prompt.SelectConfig{Message: "What next?", Options: sessionActions})
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return false, nil
			}
			return false, err
		}
		if choice < 0 || choice >= len(sessionActions) {
			return false, fmt.Errorf("unknown action %d", choice)
		}

		switch sessionActions[choice] {
		case actionSave:
			return true, nil
		case actionQuit:
			return false, nil
		case actionList:
			if err := writeRegionTable(cmd.OutOrStderr(), session); err != nil {
				return false, err
			}
			continue
		}

		if err := runAction(ctx, driver, session, sessionActions[choice]); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return false, nil
			}
			if errors.Is(err, orchestrator.ErrRowOutOfRange) || errors.Is(err, orchestrator.ErrUnknownContainer) {
				if infoErr := driver.Info(ctx, err.Error()); infoErr != nil {
					return false, infoErr
				}
				continue
			}
			return false, err
		}
	}
}

func runAction(ctx context.Context, driver prompt.Driver, session *orchestrator.Session, action string) error {
	id, err := pickRegion(ctx, driver, session)
	if err != nil {
		return err
	}
	editor, err := session.Editor(id)
	if err != nil {
		return err
	}

	switch action {
	case actionAdd:
		if _, err := session.Add(ctx, id); err != nil {
			return err
		}
		return driver.Info(ctx, fmt.Sprintf("%s now has %d rows", id, len(editor.VisibleRows())))
	case actionRemove:
		if !editor.CanDelete() {
			return driver.Info(ctx, fmt.Sprintf("%s must keep its last row", id))
		}
		position, err := askPosition(ctx, driver, "Row to remove", len(editor.VisibleRows()))
		if err != nil {
			return err
		}
		removed, err := removeRow(ctx, session, id, position)
		if err != nil || removed {
			return err
		}
		return driver.Info(ctx, fmt.Sprintf("row %d of %s kept", position, id))
	case actionMove:
		if !editor.Reorderable() {
			return driver.Info(ctx, fmt.Sprintf("%s is not sortable", id))
		}
		visible := len(editor.VisibleRows())
		from, err := askPosition(ctx, driver, "Row to move", visible)
		if err != nil {
			return err
		}
		to, err := askPosition(ctx, driver, "New position", visible)
		if err != nil {
			return err
		}
		return session.Move(ctx, id, from, to)
	}
	return fmt.Errorf("unknown action %q", action)
}

func pickRegion(ctx context.Context, driver prompt.Driver, session *orchestrator.Session) (string, error) {
	ids := session.IDs()
	if len(ids) == 1 {
		return ids[0], nil
	}
	choice, err := driver.Select(ctx, prompt.SelectConfig{Message: "Region", Options: ids})
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(ids) {
		return "", fmt.Errorf("%w %d", orchestrator.ErrUnknownContainer, choice)
	}
	return ids[choice], nil
}

func askPosition(ctx context.Context, driver prompt.Driver, message string, limit int) (int, error) {
	raw, err := driver.Input(ctx, prompt.InputConfig{
		Message:   fmt.Sprintf("%s (0-%d)", message, limit-1),
		Default:   "0",
		Validator: prompt.Position(limit),
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// promptConfirmer asks removal confirmations through the session prompts.
func promptConfirmer(driver prompt.Driver) confirm.Confirmer {
	options := []string{"Remove", "Keep"}
	return confirm.Func(func(ctx context.Context, message string) (bool, error) {
		choice, err := driver.Select(ctx, prompt.SelectConfig{Message: message, Options: options, DefaultIndex: 1})
		if err != nil {
			return false, err
		}
		return choice == 0, nil
	})
}
