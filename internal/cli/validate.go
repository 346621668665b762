package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/manifest"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate [manifest-file]",
	Short: "Validate a UI manifest against the component registry",
	Long: `Validate a UI manifest document. The manifest is read from the given file, or
from stdin when the argument is omitted or "-". Exits non-zero when the manifest
is malformed or has validation errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the validation result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	m, err := manifest.Decode(data)
	if err != nil {
		return err
	}

	generator, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	result := generator.Validate(m)

	if validateJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding validation result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	} else if err := printValidationTable(cmd, m, result); err != nil {
		return err
	}

	if !result.IsValid {
		return errInvalidManifest
	}
	return nil
}

func printValidationTable(cmd *cobra.Command, m *manifest.Manifest, result manifest.ValidationResult) error {
	out := cmd.OutOrStdout()
	if result.IsValid {
		fmt.Fprintf(out, "Manifest is valid (%d components, %d warnings)\n", len(m.Items), len(result.Warnings))
	} else {
		fmt.Fprintf(out, "Manifest is invalid (%d errors, %d warnings)\n", len(result.Errors), len(result.Warnings))
	}
	if len(result.Issues) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tCOMPONENT\tID\tMESSAGE")
	for _, issue := range result.Issues {
		id := issue.ComponentID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", issue.Severity, issue.ComponentType, id, issue.Message)
	}
	return w.Flush()
}
