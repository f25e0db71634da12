package main

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/tfd_bot/bot"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <descendant|build|weapons|help> [username]",
	Short: "Print a report to stdout, exactly as the bot would send it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	config.SetLogLevel(s.LogLevel)

	client, err := tfdapi.NewClient(s, config.GetLogger())
	if err != nil {
		return err
	}
	b := bot.New(s, client)

	chunks, err := b.Run(context.Background(), &bot.Invocation{Command: args[0], Args: args[1:]})
	if err != nil {
		return err
	}
	for _, chunk := range chunks {
		fmt.Fprint(cmd.OutOrStdout(), chunk)
	}
	return nil
}
