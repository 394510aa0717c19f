package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/internal/openapi"
	"github.com/goliatone/go-formrows/pkg/scaffold"
)

type scaffoldFlags struct {
	file       string
	spec       string
	operation  string
	property   string
	id         string
	collection string
	fields     []string
	rows       int
	sortable   bool
	sequence   bool
	addLabel   string
	template   string
	output     string

	theme      string
	variant    string
	cssVars    []string
	stylesheet string
}

func (a *app) newScaffoldCommand() *cobra.Command {
	var flags scaffoldFlags

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate the markup for a row collection",
		Long: `Generate the HTML for a repeatable row region.

The region is read from --file, derived from an array property of an
OpenAPI request body, or described with flags:

  formrows scaffold --id items --collection Items \
    --field Name --field Quantity:number --field Size:select=s,m,l:Size

  formrows scaffold --openapi api.yaml --operation createOrder --property lines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			region, err := flags.region(cmd)
			if err != nil {
				return err
			}
			cfg, err := flags.themeConfig()
			if err != nil {
				return err
			}
			options := []scaffold.Option{scaffold.WithTheme(cfg)}
			if flags.template != "" {
				src, err := os.ReadFile(flags.template)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				options = append(options, scaffold.WithTemplateSource(string(src)))
			}
			generator, err := scaffold.New(options...)
			if err != nil {
				return err
			}
			if flags.output == "" {
				_, err = generator.Render(region, cmd.OutOrStdout())
				return err
			}
			markup, err := generator.Render(region)
			if err != nil {
				return err
			}
			if err := os.WriteFile(flags.output, []byte(markup), 0o644); err != nil {
				return fmt.Errorf("write scaffold: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "region %q written to %s\n", region.ID, flags.output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.file, "file", "f", "", "region description (yaml or json)")
	f.StringVar(&flags.spec, "openapi", "", "OpenAPI document to derive the region from")
	f.StringVar(&flags.operation, "operation", "", "operationId whose request body holds the collection")
	f.StringVar(&flags.property, "property", "", "array property of the request body (first one if empty)")
	f.StringVar(&flags.id, "id", "", "container id")
	f.StringVar(&flags.collection, "collection", "", "collection name used in field names")
	f.StringArrayVar(&flags.fields, "field", nil, "field spec name[:type[=choices][:label]] (repeatable)")
	f.IntVar(&flags.rows, "rows", 1, "initial row count")
	f.BoolVar(&flags.sortable, "sortable", false, "render drag handles and a sortable body")
	f.BoolVar(&flags.sequence, "sequence", false, "render the hidden .Index sequence field")
	f.StringVar(&flags.addLabel, "add-label", "", "label of the add button")
	f.StringVar(&flags.template, "template", "", "pongo2 template file rendered instead of the bundled one")
	f.StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	f.StringVar(&flags.theme, "theme", "", "theme name written to data-theme")
	f.StringVar(&flags.variant, "variant", "", "theme variant")
	f.StringArrayVar(&flags.cssVars, "css-var", nil, "theme CSS variable name=value (repeatable)")
	f.StringVar(&flags.stylesheet, "stylesheet", "", "theme stylesheet URL linked ahead of the region")
	return cmd
}

// region builds the region from --file or --openapi, letting explicit flags
// override it.
func (s scaffoldFlags) region(cmd *cobra.Command) (scaffold.Region, error) {
	var region scaffold.Region
	switch {
	case s.file != "" && s.spec != "":
		return region, errors.New("--file and --openapi are exclusive")
	case s.spec != "":
		if s.operation == "" {
			return region, errors.New("--openapi needs --operation")
		}
		raw, err := os.ReadFile(s.spec)
		if err != nil {
			return region, fmt.Errorf("read openapi: %w", err)
		}
		spec, err := openapi.Load(cmd.Context(), raw)
		if err != nil {
			return region, err
		}
		if region, err = openapi.Region(spec, s.operation, s.property); err != nil {
			return region, err
		}
	case s.file != "":
		data, err := os.ReadFile(s.file)
		if err != nil {
			return region, fmt.Errorf("read region: %w", err)
		}
		if region, err = scaffold.ParseRegion(data); err != nil {
			return region, err
		}
	}

	changed := cmd.Flags().Changed
	if s.id != "" {
		region.ID = s.id
	}
	if s.collection != "" {
		region.Collection = s.collection
	}
	if changed("rows") || region.Rows == 0 {
		region.Rows = s.rows
	}
	if changed("sortable") {
		region.Sortable = s.sortable
	}
	if changed("sequence") {
		region.Sequence = s.sequence
	}
	if s.addLabel != "" {
		region.AddLabel = s.addLabel
	}
	for _, spec := range s.fields {
		field, err := scaffold.ParseFieldSpec(spec)
		if err != nil {
			return region, err
		}
		region.Fields = append(region.Fields, field)
	}
	return region.Normalize()
}

// themeConfig returns nil unless a theme flag was given.
func (s scaffoldFlags) themeConfig() (*theme.RendererConfig, error) {
	if s.theme == "" && s.variant == "" && len(s.cssVars) == 0 && s.stylesheet == "" {
		return nil, nil
	}
	cfg := &theme.RendererConfig{
		Theme:   s.theme,
		Variant: s.variant,
		Tokens:  make(map[string]string, len(s.cssVars)),
		CSSVars: make(map[string]string, len(s.cssVars)),
	}
	for _, pair := range s.cssVars {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "--")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --css-var %q, want name=value", pair)
		}
		cfg.Tokens[name] = value
		cfg.CSSVars["--"+name] = value
	}
	if stylesheet := s.stylesheet; stylesheet != "" {
		cfg.AssetURL = func(key string) string {
			if key == scaffold.AssetStylesheet {
				return stylesheet
			}
			return ""
		}
	}
	return cfg, nil
}
