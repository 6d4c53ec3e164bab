package playback

import "sync"

// Track is one queued or currently-playing item.
type Track struct {
	// ID is a stable handle assigned at add time, used as inline-button
	// callback data and for IPC listings.
	ID string `json:"id"`

	// Link is the submitted URL, unique within a chat.
	Link string `json:"link"`

	// Title is the resolved display name; falls back to Link when resolution
	// fails or is skipped.
	Title string `json:"title"`

	// AddedBy identifies the submitting user.
	AddedBy string `json:"added_by"`
}

// ChatState is the queue and playback state of a single chat. The zero value
// is ready to use: empty queue, no current track, not playing.
//
// Fields are unexported so every mutation goes through the Engine under the
// state's lock. Use Snapshot and FromSnapshot to move state across the
// persistence boundary.
type ChatState struct {
	mu      sync.Mutex
	queue   []Track
	current *Track
	playing bool
}

// ChatSnapshot is the serializable view of a ChatState. Field names match the
// durable snapshot layout.
type ChatSnapshot struct {
	Queue   []Track `json:"music_queue"`
	Current *Track  `json:"current_track"`
	Playing bool    `json:"bot_is_playing"`
}

// Snapshot returns a deep copy of the state, taken under the chat lock.
func (s *ChatState) Snapshot() ChatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ChatState) snapshotLocked() ChatSnapshot {
	snap := ChatSnapshot{Playing: s.playing}
	if len(s.queue) > 0 {
		snap.Queue = make([]Track, len(s.queue))
		copy(snap.Queue, s.queue)
	}
	if s.current != nil {
		track := *s.current
		snap.Current = &track
	}
	return snap
}

// FromSnapshot rebuilds a ChatState from its serialized form. Inconsistent
// input is repaired on the way in: a playing flag without a current track is
// cleared rather than propagated.
func FromSnapshot(snap ChatSnapshot) *ChatState {
	state := &ChatState{playing: snap.Playing}
	if len(snap.Queue) > 0 {
		state.queue = make([]Track, len(snap.Queue))
		copy(state.queue, snap.Queue)
	}
	if snap.Current != nil {
		track := *snap.Current
		state.current = &track
	}
	if state.current == nil {
		state.playing = false
	}
	return state
}

func (s *ChatState) hasLinkLocked(link string) bool {
	if s.current != nil && s.current.Link == link {
		return true
	}
	for _, track := range s.queue {
		if track.Link == link {
			return true
		}
	}
	return false
}
