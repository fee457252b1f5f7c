package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/toolhive-tool-manager/internal/backend"
	"github.com/stacklok/toolhive-tool-manager/internal/httpclient"
)

var lsRemoteCmd = &cobra.Command{
	Use:   "ls-remote <backend>:<name>",
	Short: "List the installable versions of a tool",
	Long: `List the versions a tool can be installed at, one per line, oldest
first. Git-sourced tools report the single pseudo-version HEAD.`,
	Args: cobra.ExactArgs(1),
	RunE: runLsRemote,
}

func runLsRemote(cmd *cobra.Command, args []string) error {
	b, err := backend.New(args[0], httpclient.NewDefaultClient(0))
	if err != nil {
		return err
	}

	versionList, err := b.ListRemoteVersions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list versions for %s: %w", args[0], err)
	}

	for _, v := range versionList {
		fmt.Println(v)
	}
	return nil
}
