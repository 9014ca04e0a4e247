// Package utterance holds the layered linguistic structure produced from a
// phonemic transcription: words (with nested syllables and phones), phrases,
// sentences and paragraphs, plus the alignment relations between levels.
package utterance

import (
	"fmt"

	"golang.org/x/text/language"
)

// SequenceType names a level of the utterance hierarchy.
type SequenceType string

const (
	// SequenceWord is the word level
	SequenceWord SequenceType = "word"

	// SequencePhrase is the phrase level
	SequencePhrase SequenceType = "phrase"

	// SequenceSentence is the sentence level
	SequenceSentence SequenceType = "sentence"

	// SequenceParagraph is the paragraph level
	SequenceParagraph SequenceType = "paragraph"
)

// RelationKey identifies the relation from one level to the level below it.
type RelationKey struct {
	Source SequenceType
	Target SequenceType
}

// Utterance is the assembled result of one conversion.
type Utterance struct {
	text   string
	locale language.Tag

	sequences map[SequenceType]Sized
	relations map[RelationKey]*Relation
	sealed    bool
}

// New creates an empty utterance for text in the given locale.
func New(text string, locale language.Tag) *Utterance {
	return &Utterance{
		text:      text,
		locale:    locale,
		sequences: make(map[SequenceType]Sized),
		relations: make(map[RelationKey]*Relation),
	}
}

// Text returns the original input text.
func (u *Utterance) Text() string { return u.text }

// Locale returns the locale tag.
func (u *Utterance) Locale() language.Tag { return u.locale }

// AddSequence registers a sequence under the given level.
func (u *Utterance) AddSequence(t SequenceType, seq Sized) error {
	if u.sealed {
		return ErrSealed
	}
	if _, ok := u.sequences[t]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSequence, t)
	}
	u.sequences[t] = seq
	return nil
}

// SetRelation registers the relation from source level to target level. Both
// levels must already hold the sequences the relation was built on.
func (u *Utterance) SetRelation(source, target SequenceType, r *Relation) error {
	if u.sealed {
		return ErrSealed
	}
	if u.sequences[source] != r.Source() || u.sequences[target] != r.Target() {
		return fmt.Errorf("%w: %s -> %s", ErrUnknownSequence, source, target)
	}
	u.relations[RelationKey{Source: source, Target: target}] = r
	return nil
}

// Seal freezes the utterance. Later registrations fail with ErrSealed.
func (u *Utterance) Seal() { u.sealed = true }

// Sealed reports whether the utterance is frozen.
func (u *Utterance) Sealed() bool { return u.sealed }

// Relation returns the relation between two levels, or nil.
func (u *Utterance) Relation(source, target SequenceType) *Relation {
	return u.relations[RelationKey{Source: source, Target: target}]
}

// Relations returns the number of registered relations.
func (u *Utterance) Relations() int { return len(u.relations) }

// Words returns the word sequence.
func (u *Utterance) Words() *Sequence[*Word] { return sequenceOf[*Word](u, SequenceWord) }

// Phrases returns the phrase sequence.
func (u *Utterance) Phrases() *Sequence[*Phrase] { return sequenceOf[*Phrase](u, SequencePhrase) }

// Sentences returns the sentence sequence.
func (u *Utterance) Sentences() *Sequence[*Sentence] {
	return sequenceOf[*Sentence](u, SequenceSentence)
}

// Paragraphs returns the paragraph sequence.
func (u *Utterance) Paragraphs() *Sequence[*Paragraph] {
	return sequenceOf[*Paragraph](u, SequenceParagraph)
}

// sequenceOf returns an empty sequence when the level is missing or holds a
// different item type.
func sequenceOf[T any](u *Utterance, t SequenceType) *Sequence[T] {
	if seq, ok := u.sequences[t].(*Sequence[T]); ok {
		return seq
	}
	return NewSequence[T]()
}

// Phones returns every phone of the utterance in document order.
func (u *Utterance) Phones() []Phone {
	var phones []Phone
	for _, w := range u.Words().Items() {
		phones = append(phones, w.Phones()...)
	}
	return phones
}

// Duration returns the end offset of the last phone.
func (u *Utterance) Duration() int {
	phones := u.Phones()
	if len(phones) == 0 {
		return 0
	}
	return phones[len(phones)-1].End()
}
