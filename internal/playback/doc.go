// Package playback holds the per-chat queue state machine.
//
// A ChatState tracks the FIFO queue of submitted links, the track currently
// marked playing, and the playing flag. All mutation goes through the Engine,
// which enforces the queue invariants: links are unique within a chat
// (queued and current), the playing flag is only true while a current track
// exists, and ordering is strictly first-in first-out.
//
// The Engine resolves link titles through a TitleResolver before taking the
// chat lock so a slow fetch never blocks other operations, and notifies a
// Persister after every completed mutation. "Playing" is purely a state
// label; nothing in this package produces audio.
package playback
