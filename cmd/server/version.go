package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arogyakrishi/internal/handler"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", handler.ServiceName, handler.Version)
		},
	}
}
