package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrows/pkg/formdata"
)

func (a *app) newValuesCommand() *cobra.Command {
	var (
		encode bool
		hidden []string
	)
	cmd := &cobra.Command{
		Use:   "values <document>",
		Short: "Print the values the document would submit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			values, err := session.SubmitValues(cmd.Context())
			if err != nil {
				return err
			}
			extras := make([]formdata.Value, 0, len(hidden))
			for _, pair := range hidden {
				name, value, ok := strings.Cut(pair, "=")
				if !ok || strings.TrimSpace(name) == "" {
					return fmt.Errorf("invalid --hidden %q, want name=value", pair)
				}
				extras = append(extras, formdata.Hidden(name, value))
			}
			values = formdata.Merge(values, extras...)

			out := cmd.OutOrStdout()
			if encode {
				_, err := fmt.Fprintln(out, formdata.Encode(values))
				return err
			}
			for _, value := range values {
				if _, err := fmt.Fprintf(out, "%s=%s\n", value.Name, value.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&encode, "encode", false, "print a urlencoded request body")
	cmd.Flags().StringArrayVar(&hidden, "hidden", nil, "extra hidden value name=value (repeatable)")
	return cmd
}

func (a *app) newAnnotateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "annotate <document> <errors>",
		Short: "Place server validation errors onto the row fields",
		Long: `Read a validation payload (yaml or json object of path to messages) and
mark the matching fields. Paths may use field names (Items[1].Name), dotted
paths or JSON pointers (/items/1/name). Unmatched paths become form errors.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read errors: %w", err)
			}
			var payload map[string][]string
			if err := yaml.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("parse errors %s: %w", args[1], err)
			}

			session, err := a.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			mapping := session.ApplyErrors(payload)
			fmt.Fprintf(cmd.ErrOrStderr(), "%d fields marked, %d form errors\n", len(mapping.Fields), len(mapping.Form))
			return writeDocument(cmd, session, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
