package prompt

import "errors"

// ErrAborted is returned when the user interrupts a prompt session.
var ErrAborted = errors.New("prompt: session aborted")

// ErrDepthExceeded is returned when a recursive type graph exceeds the
// configured nesting depth.
var ErrDepthExceeded = errors.New("prompt: nesting depth exceeded")
