package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kitforge/kitforge/pkg/scene"
	"github.com/kitforge/kitforge/pkg/template"
)

// newTemplateCmd creates the template command family.
func newTemplateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect or clear the roster-wide layout template",
	}
	cmd.AddCommand(newTemplateShowCmd(opts))
	cmd.AddCommand(newTemplateClearCmd(opts))
	return cmd
}

func openStore(cmd *cobra.Command, opts *rootOptions) (template.Store, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	return cfg.newStore(cmd.Context())
}

func newTemplateShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved template",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			m, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}

			if len(m) == 0 {
				printInfo("template is empty")
				return nil
			}
			for _, v := range scene.AllViews {
				slot, ok := m[v]
				if !ok {
					continue
				}
				fmt.Println(StyleTitle.Render(string(v)))
				if slot.Name != nil {
					printDetail("name: (%.0f, %.0f) %.0fpt %s", slot.Name.X, slot.Name.Y, slot.Name.FontSize, slot.Name.FontFamily)
				}
				if slot.Number != nil {
					printDetail("number: (%.0f, %.0f) %.0fpt %s", slot.Number.X, slot.Number.Y, slot.Number.FontSize, slot.Number.FontFamily)
				}
				for _, t := range slot.CustomTexts {
					printDetail("text %q: (%.0f, %.0f) %.0fpt", t.Text, t.X, t.Y, t.FontSize)
				}
				for _, l := range slot.CustomLogos {
					printDetail("logo %s: (%.0f, %.0f) x%.2f", l.Src, l.X, l.Y, l.ScaleX)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func newTemplateClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe the saved template",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("template cleared")
			return nil
		},
	}
}
