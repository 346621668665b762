package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinical-ui-manifest/internal/setup"
)

var (
	setupConfigPath string
	setupBinaryPath string
	setupEnv        []string
	setupJSON       bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Register the MCP server with a desktop MCP client",
}

var setupRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Add or update the server entry in the client config",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := parseEnv(setupEnv)
		if err != nil {
			return err
		}
		path, err := setup.Configure(setup.Options{
			ConfigPath: setupConfigPath,
			BinaryPath: setupBinaryPath,
			Env:        env,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", setup.ServerName, path)
		fmt.Fprintln(cmd.OutOrStdout(), "Restart the client to load the server.")
		return nil
	},
}

var setupRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the server entry from the client config",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := setup.Remove(setupConfigPath)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not registered\n", setup.ServerName)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", setup.ServerName)
		return nil
	},
}

var setupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the registration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := setup.GetStatus(setupConfigPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if setupJSON {
			data, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Config file: %s\n", status.ConfigPath)
		fmt.Fprintf(out, "Registered:  %t\n", status.Configured)
		if status.ServerPath != "" {
			fmt.Fprintf(out, "Server:      %s\n", status.ServerPath)
		}
		for _, issue := range status.Issues {
			fmt.Fprintf(out, "  ! %s\n", issue)
		}
		return nil
	},
}

func init() {
	setupCmd.PersistentFlags().StringVar(&setupConfigPath, "config", "", "Client config file (defaults to the Claude Desktop config)")
	setupRegisterCmd.Flags().StringVar(&setupBinaryPath, "binary", "", "Path to the mcp-server binary")
	setupRegisterCmd.Flags().StringArrayVar(&setupEnv, "env", nil, "Environment variable KEY=VALUE passed to the server (repeatable)")
	setupStatusCmd.Flags().BoolVar(&setupJSON, "json", false, "Output in JSON format")

	setupCmd.AddCommand(setupRegisterCmd, setupRemoveCmd, setupStatusCmd)
	rootCmd.AddCommand(setupCmd)
}

func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env value %q, want KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
