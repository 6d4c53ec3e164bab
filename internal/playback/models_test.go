package playback_test

import (
	"testing"

	"turntable/internal/playback"
)

func TestSnapshotRoundTrip(t *testing.T) {
	current := &playback.Track{ID: "id-1", Link: "https://x.test/a", Title: "A", AddedBy: "alice"}
	snap := playback.ChatSnapshot{
		Queue: []playback.Track{
			{ID: "id-2", Link: "https://x.test/b", Title: "B", AddedBy: "bob"},
		},
		Current: current,
		Playing: true,
	}

	state := playback.FromSnapshot(snap)
	got := state.Snapshot()

	if !got.Playing {
		t.Fatal("expected playing flag preserved")
	}
	if got.Current == nil || *got.Current != *current {
		t.Fatalf("unexpected current: %+v", got.Current)
	}
	if len(got.Queue) != 1 || got.Queue[0].Link != "https://x.test/b" {
		t.Fatalf("unexpected queue: %+v", got.Queue)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	snap := playback.ChatSnapshot{
		Queue:   []playback.Track{{ID: "id", Link: "https://x.test/a"}},
		Current: &playback.Track{ID: "cur", Link: "https://x.test/c"},
		Playing: true,
	}
	state := playback.FromSnapshot(snap)

	first := state.Snapshot()
	first.Queue[0].Title = "mutated"
	first.Current.Title = "mutated"

	second := state.Snapshot()
	if second.Queue[0].Title == "mutated" || second.Current.Title == "mutated" {
		t.Fatal("snapshot shares memory with state")
	}
}

func TestFromSnapshotRepairsOrphanedPlayingFlag(t *testing.T) {
	state := playback.FromSnapshot(playback.ChatSnapshot{Playing: true})
	if snap := state.Snapshot(); snap.Playing {
		t.Fatal("playing flag without current track must be cleared on load")
	}
}

func TestZeroValueChatStateIsIdle(t *testing.T) {
	state := &playback.ChatState{}
	snap := state.Snapshot()
	if snap.Playing || snap.Current != nil || len(snap.Queue) != 0 {
		t.Fatalf("expected idle zero value, got %+v", snap)
	}
}
