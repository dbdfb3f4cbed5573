package cli

import (
	"errors"
	"fmt"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/dmorgan81/autologo/internal/export"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the 'generate' command that runs a single
// generation from flags.
func NewGenerateCmd(i *do.Injector) *cobra.Command {
	defaults := brand.DefaultConfig()
	var (
		name     string
		color    string
		style    string
		traits   []string
		doExport bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one logo concept",
		Example: `  autologo generate --name "Nexus AI" --trait smart --trait innovative
  autologo generate --name Acme --style geometric --color "#16a34a" --export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := brand.Config{BrandName: name, PrimaryColor: color}
			st, err := brand.ParseStyle(style)
			if err != nil {
				return err
			}
			cfg.Style = st
			for _, t := range traits {
				tr, err := brand.ParseTrait(t)
				if err != nil {
					return err
				}
				if !cfg.HasTrait(tr) {
					cfg.ToggleTrait(tr)
				}
			}
			return runGenerate(cmd, i, cfg, doExport)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", defaults.BrandName, "Brand name")
	cmd.Flags().StringVarP(&color, "color", "c", defaults.PrimaryColor, "Primary color")
	cmd.Flags().StringVarP(&style, "style", "s", string(defaults.Style), "Visual style (minimalist, geometric, abstract, symbolic)")
	cmd.Flags().StringSliceVarP(&traits, "trait", "t", []string{"smart", "innovative"}, "Personality trait, repeatable (smart, reliable, innovative, scalable)")
	cmd.Flags().BoolVarP(&doExport, "export", "e", false, "Export the image and a preview page")

	return cmd
}

func runGenerate(cmd *cobra.Command, i *do.Injector, cfg brand.Config, doExport bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	s, err := do.Invoke[*session.Session](i)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	var exporter *export.Exporter
	if doExport {
		if exporter, err = do.Invoke[*export.Exporter](i); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}

	logo, err := s.RequestGeneration(ctx, cfg)
	if err != nil {
		return errors.New(s.LastError())
	}
	fmt.Fprintf(out, "Generated %s: %s\n", logo.ID, logo.Prompt)

	if !doExport {
		return nil
	}
	name, err := exporter.Export(ctx, logo, cfg.BrandName)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(out, "Exported %s\n", name)
	return nil
}
