package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCommand runs serve when no subcommand is given.
func rootCommand() *cobra.Command {
	var configPath string

	serveCmd := serveCommand(&configPath)
	rootCmd := &cobra.Command{
		Use:           "arogyakrishi",
		Short:         "ArogyaKrishi crop health backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional config file (yaml, json or toml)")

	rootCmd.AddCommand(
		serveCmd,
		migrateCommand(&configPath),
		versionCommand(),
	)
	return rootCmd
}
