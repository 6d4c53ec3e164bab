package playback

import "errors"

// Sentinel errors returned by Engine operations. Callers classify them with
// errors.Is to decide how to present the failure; none of them indicate a
// broken state.
var (
	// ErrInvalidLink rejects input that does not parse as an http(s) URL.
	ErrInvalidLink = errors.New("invalid link")

	// ErrDuplicate rejects a link already queued or currently playing in the
	// same chat. Comparison is exact string equality, no normalization.
	ErrDuplicate = errors.New("duplicate link")

	// ErrNothingPlaying reports a skip request while no track is playing.
	ErrNothingPlaying = errors.New("nothing playing")
)
