// Package cli wires the formrows commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/internal/prompt"
	"github.com/goliatone/go-formrows/pkg/config"
	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/logging"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithConfirmer replaces the terminal confirmation used by remove.
func WithConfirmer(c confirm.Confirmer) Option {
	return func(a *app) {
		a.confirmer = c
	}
}

// WithPrompt replaces the terminal prompts used by session.
func WithPrompt(driver prompt.Driver) Option {
	return func(a *app) {
		a.prompt = driver
	}
}

type app struct {
	logLevel   string
	logFormat  string
	configPath string

	confirmer confirm.Confirmer
	prompt    prompt.Driver
}

// NewRootCommand builds the formrows command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "formrows",
		Short:         "Scaffold and edit repeatable form rows",
		Long:          "formrows generates row collection markup and edits the rows of an existing HTML form.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&a.configPath, "config", "", "editor settings file (yaml or json)")

	root.AddCommand(
		a.newScaffoldCommand(),
		a.newListCommand(),
		a.newAddCommand(),
		a.newRemoveCommand(),
		a.newMoveCommand(),
		a.newSessionCommand(),
		a.newValuesCommand(),
		a.newAnnotateCommand(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, options ...Option) int {
	root := NewRootCommand(options...)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) logger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(a.logFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: level, Format: format}), nil
}

func (a *app) confirmerFor(yes bool) confirm.Confirmer {
	switch {
	case yes:
		return confirm.Static(true)
	case a.confirmer != nil:
		return a.confirmer
	default:
		return confirm.NewSurvey(confirm.WithStdio(os.Stdin, os.Stdout, os.Stderr))
	}
}

func (a *app) promptDriver() prompt.Driver {
	if a.prompt != nil {
		return a.prompt
	}
	return prompt.NewSurvey(os.Stdin, os.Stdout, os.Stderr)
}

// openDocument parses path and binds an editor to every region in it.
func (a *app) openDocument(cmd *cobra.Command, path string, extra ...orchestrator.Option) (*orchestrator.Session, error) {
	logger, err := a.logger(cmd)
	if err != nil {
		return nil, err
	}

	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithScheduler(dom.NewLoop()),
		orchestrator.WithConfirmer(a.confirmerFor(false)),
	}
	if strings.TrimSpace(a.configPath) != "" {
		store, err := config.LoadFile(a.configPath)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithConfigStore(store))
	}
	options = append(options, extra...)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	session, err := orchestrator.New(options...).Open(cmd.Context(), orchestrator.Request{Source: file})
	if err != nil {
		return nil, err
	}
	logger.Debug("document opened", "path", path, "regions", len(session.IDs()))
	return session, nil
}

// writeDocument submits the session and writes the document to output, or
// to the command output when output is empty.
func writeDocument(cmd *cobra.Command, session *orchestrator.Session, output string) error {
	if _, err := session.Submit(cmd.Context()); err != nil {
		return err
	}
	if output == "" {
		return session.Render(cmd.OutOrStdout())
	}
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := session.Render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
