package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/domain"
	"github.com/clinical-ui-manifest/internal/manifest"
)

var (
	generateValidate bool
	generateStrict   bool
	generateCompact  bool
	generateOutput   string
)

// errInvalidManifest makes the command exit non-zero once the manifest has
// been written.
var errInvalidManifest = errors.New("manifest failed validation")

var generateCmd = &cobra.Command{
	Use:   "generate [summary-file]",
	Short: "Generate a UI manifest from a clinical summary",
	Long: `Generate a UI manifest from a JSON or YAML clinical summary. The summary is
read from the given file, or from stdin when the argument is omitted or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateValidate, "validate", true, "Validate the generated manifest")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Exit non-zero when validation reports errors")
	generateCmd.Flags().BoolVar(&generateCompact, "compact", false, "Write compact JSON")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the manifest to a file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	summary, err := domain.NewSummaryParser(0).Parse(data)
	if err != nil {
		return fmt.Errorf("parsing summary: %w", err)
	}

	generator, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	var (
		m      *manifest.Manifest
		result manifest.ValidationResult
	)
	if generateValidate {
		m, result, err = generator.GenerateAndValidate(summary)
		if err != nil {
			return err
		}
	} else {
		m = generator.Generate(summary)
		if len(m.Items) == 0 {
			return &manifest.EmptyManifestError{Warnings: m.Warnings}
		}
	}

	if err := writeManifest(cmd, m); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for _, w := range m.Warnings {
		fmt.Fprintf(errOut, "warning: %s\n", w)
	}
	if generateValidate {
		for _, w := range result.Warnings {
			fmt.Fprintf(errOut, "warning: %s\n", w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(errOut, "error: %s\n", e)
		}
		if generateStrict && !result.IsValid {
			return errInvalidManifest
		}
	}
	return nil
}

func writeManifest(cmd *cobra.Command, m *manifest.Manifest) error {
	var (
		data []byte
		err  error
	)
	if generateCompact {
		data, err = json.Marshal(m)
	} else {
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	if generateOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(generateOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", generateOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d components to %s\n", len(m.Items), generateOutput)
	return nil
}
