package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/stacklok/toolhive-tool-manager/internal/backend"
	"github.com/stacklok/toolhive-tool-manager/internal/config"
	"github.com/stacklok/toolhive-tool-manager/internal/httpclient"
	"github.com/stacklok/toolhive-tool-manager/internal/logger"
	"github.com/stacklok/toolhive-tool-manager/internal/runner"
	"github.com/stacklok/toolhive-tool-manager/internal/versions"
)

var installCmd = &cobra.Command{
	Use:   "install <backend>:<name>[@version]",
	Short: "Install a tool at a specific version",
	Long: `Install a tool by delegating to its backend's package manager.

The version may be a registry version, "latest" (the default), or for
git-sourced tools one of HEAD, rev:<ref>, branch:<name>, tag:<name>:

  thv-tool-manager install cargo:eza@1.2.3
  thv-tool-manager install cargo:eza-community/eza@tag:v0.18.0
  thv-tool-manager install cargo:eza-community/eza@branch:main`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().String("config", "", "Path to configuration file (YAML format)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	toolRef, version := splitToolRef(args[0])

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	var opts []config.Option
	if configPath != "" {
		opts = append(opts, config.WithConfigPath(configPath))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return err
	}

	b, err := backend.New(toolRef, httpclient.NewDefaultClient(0))
	if err != nil {
		return err
	}

	if version == "latest" {
		available, err := b.ListRemoteVersions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to resolve latest version for %s: %w", toolRef, err)
		}
		version = versions.Latest(available)
		if version == "" {
			return fmt.Errorf("%s has no installable versions", toolRef)
		}
		logger.Infof("resolved %s to version %s", toolRef, version)
	}

	installPath := b.Arg().InstallPath(version)
	plan, err := b.PlanInstall(&backend.InstallContext{
		Version:         version,
		InstallPath:     installPath,
		Paths:           installedBinPaths(),
		Experimental:    cfg.Experimental,
		BinstallEnabled: cfg.Cargo.Binstall,
		GitHubToken:     config.GitHubToken(),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(installPath, 0o750); err != nil {
		return fmt.Errorf("failed to create install root: %w", err)
	}

	if err := runner.New().Run(cmd.Context(), plan); err != nil {
		return err
	}

	logger.Infof("installed %s@%s into %s", toolRef, version, installPath)
	return nil
}

// splitToolRef separates the optional @version suffix from a tool
// reference. The last @ wins so names containing @ still parse.
func splitToolRef(ref string) (toolRef, version string) {
	if i := strings.LastIndex(ref, "@"); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, "latest"
}

// installedBinPaths returns the bin directories of already-installed
// tools so a delegated install can see its prerequisites on PATH.
func installedBinPaths() []string {
	root := filepath.Join(xdg.DataHome, config.AppName, "installs")
	matches, err := filepath.Glob(filepath.Join(root, "*", "*", "*", "bin"))
	if err != nil {
		return nil
	}
	return matches
}
