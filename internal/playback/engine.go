package playback

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"turntable/internal/logging"
)

// DefaultInspectLimit caps how many queued tracks a single Inspect surfaces.
const DefaultInspectLimit = 10

// TitleResolver resolves a link to a display title within bounded time. It
// never fails past its boundary; on any problem it returns the link itself.
type TitleResolver interface {
	Resolve(ctx context.Context, link string) string
}

// Persister is notified after every completed state mutation so the full
// registry can be written to durable storage. Persist failures are the
// persister's concern; the in-memory mutation stands regardless.
type Persister interface {
	Persist(ctx context.Context)
}

// Engine applies queue operations to individual chat states. All methods are
// safe for concurrent use; operations on the same chat serialize on that
// chat's lock, operations on different chats do not contend.
type Engine struct {
	resolver     TitleResolver
	persister    Persister
	logger       *slog.Logger
	inspectLimit int
}

// NewEngine builds an engine. A nil resolver skips title resolution, a nil
// persister skips durable writes; both are useful in tests.
func NewEngine(resolver TitleResolver, persister Persister, logger *slog.Logger, inspectLimit int) *Engine {
	if inspectLimit <= 0 {
		inspectLimit = DefaultInspectLimit
	}
	return &Engine{
		resolver:     resolver,
		persister:    persister,
		logger:       logging.NewComponentLogger(logger, "playback"),
		inspectLimit: inspectLimit,
	}
}

// AddResult reports a successful Add.
type AddResult struct {
	Track    Track
	Position int
	// OfferPlay advises the caller that nothing is playing and the queue was
	// empty before this add, so a "play now?" prompt is appropriate. It is
	// advisory only; no state depends on it.
	OfferPlay bool
}

// Add validates the link, resolves its title, and appends it to the chat's
// queue. Returns ErrInvalidLink for input that is not an http(s) URL and
// ErrDuplicate when the link is already queued or playing in this chat.
func (e *Engine) Add(ctx context.Context, state *ChatState, link, addedBy string) (AddResult, error) {
	if !validLink(link) {
		return AddResult{}, ErrInvalidLink
	}

	state.mu.Lock()
	if state.hasLinkLocked(link) {
		state.mu.Unlock()
		return AddResult{}, ErrDuplicate
	}
	state.mu.Unlock()

	// Resolution happens outside the chat lock so a slow page fetch never
	// stalls concurrent operations on this chat.
	title := link
	if e.resolver != nil {
		title = e.resolver.Resolve(ctx, link)
	}

	track := Track{
		ID:      uuid.NewString(),
		Link:    link,
		Title:   title,
		AddedBy: addedBy,
	}

	state.mu.Lock()
	// Re-check: a concurrent Add of the same link may have won while the
	// title was being resolved.
	if state.hasLinkLocked(link) {
		state.mu.Unlock()
		return AddResult{}, ErrDuplicate
	}
	offerPlay := len(state.queue) == 0 && !state.playing
	state.queue = append(state.queue, track)
	position := len(state.queue)
	state.mu.Unlock()

	e.logger.Debug("track queued",
		logging.String(logging.FieldLink, track.Link),
		logging.String("title", track.Title),
		logging.Int("position", position))

	e.doPersist(ctx)
	return AddResult{Track: track, Position: position, OfferPlay: offerPlay}, nil
}

// Advance moves the queue head into the current slot. On an empty queue it
// clears the current track and the playing flag; calling it repeatedly on an
// empty queue is a no-op beyond that. The returned track is nil when the
// queue was empty.
func (e *Engine) Advance(ctx context.Context, state *ChatState) *Track {
	state.mu.Lock()
	track := advanceLocked(state)
	state.mu.Unlock()

	e.doPersist(ctx)
	return track
}

// advanceLocked is the single place the current slot is assigned and the
// single consumer of the queue head.
func advanceLocked(state *ChatState) *Track {
	if len(state.queue) == 0 {
		state.current = nil
		state.playing = false
		return nil
	}
	head := state.queue[0]
	state.queue = state.queue[1:]
	state.current = &head
	state.playing = true
	track := head
	return &track
}

// PlayOutcome describes the result of Play.
type PlayOutcome int

const (
	// PlayStarted means the queue head was promoted to playing.
	PlayStarted PlayOutcome = iota
	// PlayAlreadyPlaying means a track was already playing; nothing changed.
	PlayAlreadyPlaying
	// PlayQueueEmpty means there was nothing to play; nothing changed.
	PlayQueueEmpty
)

// PlayResult reports a Play call. Track is set for PlayStarted and
// PlayAlreadyPlaying.
type PlayResult struct {
	Outcome PlayOutcome
	Track   *Track
}

// Play starts playback of the queue head unless a track is already playing.
func (e *Engine) Play(ctx context.Context, state *ChatState) PlayResult {
	state.mu.Lock()
	if state.playing && state.current != nil {
		track := *state.current
		state.mu.Unlock()
		return PlayResult{Outcome: PlayAlreadyPlaying, Track: &track}
	}
	if len(state.queue) == 0 {
		// Repair a playing flag left set without a current track.
		state.playing = false
		state.mu.Unlock()
		return PlayResult{Outcome: PlayQueueEmpty}
	}
	track := advanceLocked(state)
	state.mu.Unlock()

	e.logger.Debug("playback started", logging.String(logging.FieldLink, track.Link))
	e.doPersist(ctx)
	return PlayResult{Outcome: PlayStarted, Track: track}
}

// SkipResult reports a successful Skip: the track that was playing and the
// one that replaced it (nil when the queue ran empty).
type SkipResult struct {
	Skipped Track
	Next    *Track
}

// Skip abandons the current track and advances. Returns ErrNothingPlaying,
// with no state change and no persistence write, when no track is playing.
// The skip and the advance are one atomic transition under the chat lock.
func (e *Engine) Skip(ctx context.Context, state *ChatState) (SkipResult, error) {
	state.mu.Lock()
	if !state.playing || state.current == nil {
		state.mu.Unlock()
		return SkipResult{}, ErrNothingPlaying
	}
	skipped := *state.current
	next := advanceLocked(state)
	state.mu.Unlock()

	e.logger.Debug("track skipped", logging.String(logging.FieldLink, skipped.Link))
	e.doPersist(ctx)
	return SkipResult{Skipped: skipped, Next: next}, nil
}

// Stop clears the queue and the current track unconditionally. It persists
// even when the state was already idle.
func (e *Engine) Stop(ctx context.Context, state *ChatState) {
	state.mu.Lock()
	state.queue = nil
	state.current = nil
	state.playing = false
	state.mu.Unlock()

	e.doPersist(ctx)
}

// View is a read-only summary of a chat's state. Tracks holds at most the
// inspect limit; Hidden counts the rest.
type View struct {
	Current *Track
	Playing bool
	Tracks  []Track
	Queued  int
	Hidden  int
}

// Inspect reports the current track and the head of the queue without
// mutating anything.
func (e *Engine) Inspect(state *ChatState) View {
	state.mu.Lock()
	defer state.mu.Unlock()

	view := View{Playing: state.playing, Queued: len(state.queue)}
	if state.current != nil {
		track := *state.current
		view.Current = &track
	}
	shown := len(state.queue)
	if shown > e.inspectLimit {
		shown = e.inspectLimit
		view.Hidden = len(state.queue) - shown
	}
	if shown > 0 {
		view.Tracks = make([]Track, shown)
		copy(view.Tracks, state.queue[:shown])
	}
	return view
}

func (e *Engine) doPersist(ctx context.Context) {
	if e.persister == nil {
		return
	}
	e.persister.Persist(ctx)
}

func validLink(link string) bool {
	parsed, err := url.ParseRequestURI(link)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
