package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"turntable/internal/ipc"
)

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// chatsTable renders the per-chat overview for `turntable chats`.
func chatsTable(chats []ipc.ChatSummary) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"Chat", "Playing", "Current Track", "Queued"})
	for _, chat := range chats {
		tw.AppendRow(table.Row{
			strconv.FormatInt(chat.ChatID, 10),
			yesNo(chat.Playing),
			trackCell(chat.Current),
			chat.Queued,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// queueTable renders the queued tracks for `turntable queue`. Positions are
// 1-based to match the bot's chat-side listing.
func queueTable(tracks []ipc.Track) string {
	tw := newTableWriter()
	tw.AppendHeader(table.Row{"#", "Title", "Link", "Added By"})
	for i, track := range tracks {
		tw.AppendRow(table.Row{i + 1, trackCell(&track), track.Link, track.AddedBy})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
