package acoustic

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/simplephon/utterance"
	"golang.org/x/text/language"
)

// Converter turns simple phone strings into timed utterances. A Converter
// holds no per-call state and may be shared between goroutines as long as its
// Splitter is safe for concurrent use.
type Converter struct {
	splitter Splitter
	model    DurationModel
	boundary utterance.Boundary
}

// Option configures a Converter.
type Option func(*Converter)

// WithDurationModel replaces the default phone durations.
func WithDurationModel(m DurationModel) Option {
	return func(c *Converter) { c.model = m }
}

// WithBoundary replaces the boundary closing the synthesized phrase.
func WithBoundary(b utterance.Boundary) Option {
	return func(c *Converter) { c.boundary = b }
}

// NewConverter creates a converter using splitter for phoneme lookup.
func NewConverter(splitter Splitter, opts ...Option) (*Converter, error) {
	c := &Converter{
		splitter: splitter,
		model:    DefaultDurationModel(),
		boundary: utterance.DefaultBoundary(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.model.Validate(); err != nil {
		return nil, err
	}
	if c.boundary.Duration < 0 {
		return nil, fmt.Errorf("%w: boundary duration %d", ErrInvalidDuration, c.boundary.Duration)
	}

	return c, nil
}

// DurationModel returns the durations in use.
func (c *Converter) DurationModel() DurationModel { return c.model }

// Boundary returns the phrase boundary in use.
func (c *Converter) Boundary() utterance.Boundary { return c.boundary }

// Process converts text into a sealed utterance. The input carries no
// punctuation, so all words end up in one phrase, one sentence and one
// paragraph. Splitter errors are returned unchanged and no utterance is
// produced.
func (c *Converter) Process(text string, locale language.Tag) (*utterance.Utterance, error) {
	b := &builder{splitter: c.splitter, timeline: newTimeline(c.model)}
	words, err := b.buildWords(text)
	if err != nil {
		return nil, err
	}

	phrases := utterance.NewSequence(utterance.NewPhrase(c.boundary))
	sentences := utterance.NewSequence(utterance.NewSentence(""))
	paragraphs := utterance.NewSequence(utterance.NewParagraph(""))

	utt := utterance.New(text, locale)
	if err := utt.AddSequence(utterance.SequenceWord, words); err != nil {
		return nil, err
	}
	if err := attach(utt, utterance.SequencePhrase, phrases, utterance.SequenceWord, words); err != nil {
		return nil, err
	}
	if err := attach(utt, utterance.SequenceSentence, sentences, utterance.SequencePhrase, phrases); err != nil {
		return nil, err
	}
	if err := attach(utt, utterance.SequenceParagraph, paragraphs, utterance.SequenceSentence, sentences); err != nil {
		return nil, err
	}
	utt.Seal()

	log.Debug("converted transcription",
		"words", words.Len(),
		"phones", len(utt.Phones()),
		"duration_ms", b.timeline.offset)

	return utt, nil
}

// attach registers a parent level and its relation to an already registered
// child level.
func attach[P, C any](
	utt *utterance.Utterance,
	parentType utterance.SequenceType, parents *utterance.Sequence[P],
	childType utterance.SequenceType, children *utterance.Sequence[C],
) error {
	if err := utt.AddSequence(parentType, parents); err != nil {
		return err
	}
	rel, err := Link(parents, children)
	if err != nil {
		return fmt.Errorf("linking %s to %s: %w", parentType, childType, err)
	}
	return utt.SetRelation(parentType, childType, rel)
}
