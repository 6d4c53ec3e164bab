// Package registry owns the mapping from chat identifier to queue state.
//
// The registry is the unit of isolation between conversations: it hands out
// exactly one ChatState per chat id, creating state lazily on first reference.
// The map lock guards only lookup and insertion; mutation of an individual
// chat serializes on that chat's own lock inside the playback engine, so
// unrelated chats never block each other.
package registry

import (
	"sort"
	"sync"

	"turntable/internal/playback"
)

// Registry maps chat ids to their queue state.
type Registry struct {
	mu    sync.Mutex
	chats map[int64]*playback.ChatState
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{chats: make(map[int64]*playback.ChatState)}
}

// FromSnapshots rebuilds a registry from persisted chat snapshots.
func FromSnapshots(snapshots map[int64]playback.ChatSnapshot) *Registry {
	reg := New()
	for chatID, snap := range snapshots {
		reg.chats[chatID] = playback.FromSnapshot(snap)
	}
	return reg
}

// GetOrCreate returns the state for chatID, inserting a fresh empty state on
// first reference. Concurrent callers for the same id observe the same
// instance. Never fails.
func (r *Registry) GetOrCreate(chatID int64) *playback.ChatState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.chats[chatID]
	if !ok {
		state = &playback.ChatState{}
		r.chats[chatID] = state
	}
	return state
}

// Get returns the state for chatID, or nil when the chat has never been seen.
func (r *Registry) Get(chatID int64) *playback.ChatState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chats[chatID]
}

// Snapshot deep-copies every chat's state for persistence or listing. Each
// chat is copied under its own lock, so the result is a consistent per-chat
// view produced by the last completed write.
func (r *Registry) Snapshot() map[int64]playback.ChatSnapshot {
	r.mu.Lock()
	states := make(map[int64]*playback.ChatState, len(r.chats))
	for chatID, state := range r.chats {
		states[chatID] = state
	}
	r.mu.Unlock()

	snapshots := make(map[int64]playback.ChatSnapshot, len(states))
	for chatID, state := range states {
		snapshots[chatID] = state.Snapshot()
	}
	return snapshots
}

// Chats lists the known chat ids in ascending order.
func (r *Registry) Chats() []int64 {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.chats))
	for chatID := range r.chats {
		ids = append(ids, chatID)
	}
	r.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len reports the number of known chats.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}
