package router

import (
	"fmt"
	"html"
	"strings"

	"turntable/internal/playback"
)

const helpText = `I keep a music queue for this chat.

/add &lt;link&gt; — queue a link
/play — start the next track
/skip — drop the current track and advance
/stop — clear the queue
/queue — show what's queued`

func formatAdded(result playback.AddResult) string {
	text := fmt.Sprintf("Queued #%d: %s", result.Position, trackLabel(result.Track))
	if result.OfferPlay {
		text += "\nNothing is playing — start it?"
	}
	return text
}

func formatNowPlaying(track playback.Track) string {
	return "Now playing: " + trackLabel(track)
}

func formatPlay(result playback.PlayResult) string {
	switch result.Outcome {
	case playback.PlayStarted:
		return formatNowPlaying(*result.Track)
	case playback.PlayAlreadyPlaying:
		return "Already playing: " + trackLabel(*result.Track)
	default:
		return "The queue is empty. Add something with /add &lt;link&gt;."
	}
}

func formatSkip(result playback.SkipResult) string {
	text := "Skipped: " + trackLabel(result.Skipped)
	if result.Next != nil {
		return text + "\n" + formatNowPlaying(*result.Next)
	}
	return text + "\nQueue finished."
}

func formatView(view playback.View) string {
	var b strings.Builder
	if view.Current != nil && view.Playing {
		b.WriteString(formatNowPlaying(*view.Current))
	} else {
		b.WriteString("Nothing is playing.")
	}

	if len(view.Tracks) == 0 {
		b.WriteString("\nThe queue is empty.")
		return b.String()
	}

	b.WriteString("\n\nUp next:")
	for i, track := range view.Tracks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, trackLabel(track))
	}
	if view.Hidden > 0 {
		fmt.Fprintf(&b, "\n…and %d more.", view.Hidden)
	}
	return b.String()
}

// trackLabel renders a track as a link when the title differs from the URL,
// escaping everything that ends up in HTML. The href is attribute text, so a
// quote inside the link must become an entity, not a backslash escape.
func trackLabel(track playback.Track) string {
	href := html.EscapeString(track.Link)
	text := track.Title
	if text == "" {
		text = track.Link
	}
	label := fmt.Sprintf(`<a href="%s">%s</a>`, href, html.EscapeString(text))
	return appendSubmitter(label, track.AddedBy)
}

func appendSubmitter(label, addedBy string) string {
	if addedBy == "" {
		return label
	}
	return fmt.Sprintf("%s (added by %s)", label, html.EscapeString(addedBy))
}
