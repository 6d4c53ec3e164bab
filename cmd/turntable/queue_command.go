package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"turntable/internal/ipc"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "queue <chat-id>",
		Short: "Show one chat's queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Queue(chatID)
				if err != nil {
					return fmt.Errorf("fetch queue: %w", err)
				}

				stdout := cmd.OutOrStdout()
				if resp.Current == nil && len(resp.Tracks) == 0 {
					fmt.Fprintln(stdout, "Queue is empty")
					return nil
				}

				if resp.Current != nil {
					state := "Paused"
					if resp.Playing {
						state = "Now playing"
					}
					fmt.Fprintf(stdout, "%s: %s\n", state, trackLine(*resp.Current))
				}

				if len(resp.Tracks) == 0 {
					fmt.Fprintln(stdout, "Nothing queued")
					return nil
				}

				fmt.Fprintln(stdout, queueTable(resp.Tracks))
				if resp.Hidden > 0 {
					fmt.Fprintf(stdout, "...and %d more\n", resp.Hidden)
				}
				return nil
			})
		},
	}
}

func trackLine(track ipc.Track) string {
	label := trackCell(&track)
	if track.AddedBy != "" {
		return fmt.Sprintf("%s (added by %s)", label, track.AddedBy)
	}
	return label
}

func parseChatID(arg string) (int64, error) {
	chatID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", arg)
	}
	return chatID, nil
}
