package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"turntable/internal/ipc"
)

func newStopChatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop-chat <chat-id>",
		Short: "Clear a chat's queue and playback state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StopChat(chatID)
				if err != nil {
					return fmt.Errorf("stop chat: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if !resp.Stopped {
					fmt.Fprintf(stdout, "Chat %d is not known to the daemon\n", chatID)
					return nil
				}
				fmt.Fprintf(stdout, "Cleared queue for chat %d\n", chatID)
				return nil
			})
		},
	}
}
