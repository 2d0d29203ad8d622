package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hardikramesh/botforge/internal/adapters/docker"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <image>",
		Short: "Start a container from a bot image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dockerAdapter, err := docker.NewAdapter(log)
			if err != nil {
				return err
			}
			id, err := dockerAdapter.StartContainer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(id[:12])
			return nil
		},
	}
}
