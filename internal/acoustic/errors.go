// Package acoustic derives default acoustic parameters from a simple phone
// string: stressed syllables, phone durations on a running timeline, and the
// word/phrase/sentence/paragraph hierarchy that wraps them.
package acoustic

import "errors"

// ErrInvalidDuration indicates a non-positive duration setting
var ErrInvalidDuration = errors.New("invalid duration setting")
