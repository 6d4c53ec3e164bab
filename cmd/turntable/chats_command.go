package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"turntable/internal/ipc"
)

func newChatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List chats with queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Chats()
				if err != nil {
					return fmt.Errorf("list chats: %w", err)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Chats) == 0 {
					fmt.Fprintln(stdout, "No chats yet")
					return nil
				}

				fmt.Fprintln(stdout, chatsTable(resp.Chats))
				return nil
			})
		},
	}
}

func trackCell(track *ipc.Track) string {
	if track == nil {
		return "-"
	}
	if track.Title != "" {
		return track.Title
	}
	return track.Link
}
