package testsupport

import (
	"testing"

	"turntable/internal/playback"
	"turntable/internal/registry"
)

// SeedRegistry builds a registry preloaded with the given chat snapshots.
func SeedRegistry(t testing.TB, snapshots map[int64]playback.ChatSnapshot) *registry.Registry {
	t.Helper()
	return registry.FromSnapshots(snapshots)
}

// Track builds a test track with predictable fields.
func Track(id, link string) playback.Track {
	return playback.Track{ID: id, Link: link, Title: "Title " + id, AddedBy: "tester"}
}
