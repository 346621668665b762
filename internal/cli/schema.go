package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/components"
)

var schemaType string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the component schema export",
	Long:  `Print the full component registry export keyed by component type, or a single component with --type.`,
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaType, "type", "", "Print a single component type")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	registry, err := components.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("building component registry: %w", err)
	}

	var payload any = registry.ExportSchema()
	if schemaType != "" {
		def, ok := registry.Get(components.ComponentType(schemaType))
		if !ok {
			return fmt.Errorf("unknown component type: %s", schemaType)
		}
		payload = def.Export()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
