// Package app provides the entry point for the tool manager application.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/toolhive-tool-manager/internal/logger"
	"github.com/stacklok/toolhive-tool-manager/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "thv-tool-manager",
	DisableAutoGenTag: true,
	Short:             "Install developer tools through external package managers",
	Long: `thv-tool-manager resolves and installs developer tools by delegating to
external package managers. Tools are addressed as <backend>:<name>, e.g.
cargo:eza or cargo:eza-community/eza for a git-sourced install.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize(viper.GetBool("debug"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates the root command for the tool manager.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("error binding debug flag: %v", err)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(lsRemoteCmd)
	rootCmd.AddCommand(installCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format version info: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Printf("thv-tool-manager %s (commit %s, built %s, %s, %s)\n",
			info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
