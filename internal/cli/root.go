// Package cli implements manifestctl, the command line front end to the
// manifest generator, validator and component registry.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/logging"
	"github.com/clinical-ui-manifest/internal/manifest"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "manifestctl",
	Short: "Generate and validate clinical UI manifests",
	Long: `manifestctl turns structured clinical summaries into UI manifests, validates
manifests against the component registry and lists the registered components.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	return logging.New(logLevel, logFormat, cmd.ErrOrStderr())
}

func newGenerator(cmd *cobra.Command) (*manifest.Generator, error) {
	generator, err := manifest.NewDefaultGenerator(newLogger(cmd))
	if err != nil {
		return nil, fmt.Errorf("creating manifest generator: %w", err)
	}
	return generator, nil
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
