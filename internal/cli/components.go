package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/cache"
	"github.com/clinical-ui-manifest/internal/components"
)

var (
	componentsCategory string
	componentsJSON     bool
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List registered UI components",
	RunE:  runComponents,
}

func init() {
	componentsCmd.Flags().StringVar(&componentsCategory, "category", "", "Comma separated category filter (Header, Alert, Card, Table, Visualization, Grid)")
	componentsCmd.Flags().BoolVar(&componentsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(componentsCmd)
}

func runComponents(cmd *cobra.Command, args []string) error {
	categories, err := cache.ParseCategories(componentsCategory)
	if err != nil {
		return err
	}

	registry, err := components.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("building component registry: %w", err)
	}
	exported := registry.Export(categories...)

	if componentsJSON {
		data, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	if len(exported) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No components match the filter.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCATEGORY\tVERSION\tROLE")
	for _, c := range exported {
		name := c.ComponentName
		if len(c.Deprecations) > 0 {
			name += " (deprecated)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, c.Category, c.Version, c.VisualRole)
	}
	return w.Flush()
}
