package utterance

import "errors"

// Common utterance errors
var (
	// ErrSealed indicates a mutation of an already assembled utterance
	ErrSealed = errors.New("utterance is sealed")

	// ErrDuplicateSequence indicates a level was registered twice
	ErrDuplicateSequence = errors.New("sequence already registered")

	// ErrUnknownSequence indicates a relation over sequences the utterance does not hold
	ErrUnknownSequence = errors.New("relation references unregistered sequence")

	// ErrIndexOutOfRange indicates a relation pair outside its sequences
	ErrIndexOutOfRange = errors.New("relation index out of range")
)
