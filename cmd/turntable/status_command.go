package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"turntable/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return fmt.Errorf("fetch status: %w", err)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon Status", colorize) {
					fmt.Fprintln(stdout, line)
				}

				runningKind := statusWarn
				if status.Running {
					runningKind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine("Running", runningKind, yesNo(status.Running), colorize))
				bot := status.BotUsername
				if bot == "" {
					bot = "(not connected)"
				}
				fmt.Fprintln(stdout, renderStatusLine("Bot", statusInfo, bot, colorize))
				fmt.Fprintln(stdout, renderStatusLine("PID", statusInfo, strconv.Itoa(status.PID), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Chats", statusInfo, strconv.Itoa(status.Chats), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Snapshot", statusInfo, status.SnapshotPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, status.LockPath, colorize))
				return nil
			})
		},
	}
}
