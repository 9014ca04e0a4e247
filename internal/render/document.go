package render

import (
	"strings"

	"github.com/dgnsrekt/simplephon/internal/acoustic"
	"github.com/dgnsrekt/simplephon/utterance"
)

// Document is the tree form of an utterance shared by every output format.
// Levels are nested by following the utterance's alignment relations.
type Document struct {
	Locale     string      `json:"locale" yaml:"locale" msgpack:"locale"`
	Text       string      `json:"text" yaml:"text" msgpack:"text"`
	Duration   int         `json:"duration" yaml:"duration" msgpack:"duration"`
	Paragraphs []Paragraph `json:"paragraphs" yaml:"paragraphs" msgpack:"paragraphs"`
}

// Paragraph is a rendered paragraph.
type Paragraph struct {
	Text      string     `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Sentences []Sentence `json:"sentences" yaml:"sentences" msgpack:"sentences"`
}

// Sentence is a rendered sentence.
type Sentence struct {
	Text    string   `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Phrases []Phrase `json:"phrases" yaml:"phrases" msgpack:"phrases"`
}

// Phrase is a rendered phrase with its closing boundary.
type Phrase struct {
	Words    []Word   `json:"words" yaml:"words" msgpack:"words"`
	Boundary Boundary `json:"boundary" yaml:"boundary" msgpack:"boundary"`
}

// Boundary is a rendered phrase boundary.
type Boundary struct {
	Tone     int `json:"tone" yaml:"tone" msgpack:"tone"`
	Duration int `json:"duration" yaml:"duration" msgpack:"duration"`
}

// Word is a rendered word.
type Word struct {
	Text          string     `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	Transcription string     `json:"transcription" yaml:"transcription" msgpack:"transcription"`
	Accent        string     `json:"accent,omitempty" yaml:"accent,omitempty" msgpack:"accent,omitempty"`
	Syllables     []Syllable `json:"syllables" yaml:"syllables" msgpack:"syllables"`
}

// Syllable is a rendered syllable.
type Syllable struct {
	Stress int     `json:"stress" yaml:"stress" msgpack:"stress"`
	Accent string  `json:"accent,omitempty" yaml:"accent,omitempty" msgpack:"accent,omitempty"`
	Phones []Phone `json:"phones" yaml:"phones" msgpack:"phones"`
}

// Phone is a rendered phone. Times are in milliseconds.
type Phone struct {
	Symbol   string `json:"symbol" yaml:"symbol" msgpack:"symbol"`
	Start    int    `json:"start" yaml:"start" msgpack:"start"`
	Duration int    `json:"duration" yaml:"duration" msgpack:"duration"`
}

// NewDocument builds the document tree of u.
func NewDocument(u *utterance.Utterance) *Document {
	doc := &Document{
		Locale:     u.Locale().String(),
		Text:       u.Text(),
		Duration:   u.Duration(),
		Paragraphs: []Paragraph{},
	}

	words := u.Words()
	phrases := u.Phrases()
	sentences := u.Sentences()
	paragraphs := u.Paragraphs()

	for pi, para := range paragraphs.Items() {
		p := Paragraph{Text: para.Text(), Sentences: []Sentence{}}
		for _, si := range related(u, utterance.SequenceParagraph, utterance.SequenceSentence, pi) {
			s := Sentence{Text: sentences.Get(si).Text(), Phrases: []Phrase{}}
			for _, phi := range related(u, utterance.SequenceSentence, utterance.SequencePhrase, si) {
				b := phrases.Get(phi).Boundary()
				ph := Phrase{Words: []Word{}, Boundary: Boundary{Tone: b.Tone, Duration: b.Duration}}
				for _, wi := range related(u, utterance.SequencePhrase, utterance.SequenceWord, phi) {
					ph.Words = append(ph.Words, newWord(words.Get(wi)))
				}
				s.Phrases = append(s.Phrases, ph)
			}
			p.Sentences = append(p.Sentences, s)
		}
		doc.Paragraphs = append(doc.Paragraphs, p)
	}

	return doc
}

func related(u *utterance.Utterance, source, target utterance.SequenceType, i int) []int {
	rel := u.Relation(source, target)
	if rel == nil {
		return nil
	}
	return rel.RelatedIndices(i)
}

func newWord(w *utterance.Word) Word {
	out := Word{
		Text:          w.Text(),
		Transcription: Transcription(w),
		Accent:        accentTone(w.Accent()),
		Syllables:     make([]Syllable, 0, len(w.Syllables())),
	}
	for _, syl := range w.Syllables() {
		s := Syllable{
			Stress: int(syl.Stress()),
			Accent: accentTone(syl.Accent()),
			Phones: make([]Phone, 0, len(syl.Phones())),
		}
		for _, p := range syl.Phones() {
			s.Phones = append(s.Phones, Phone{Symbol: p.Symbol(), Start: p.Start(), Duration: p.Duration()})
		}
		out.Syllables = append(out.Syllables, s)
	}
	return out
}

func accentTone(a *utterance.Accent) string {
	if a == nil {
		return ""
	}
	return a.Tone()
}

// Transcription writes a word back in spaced phone notation, for example
// "' t - o" for a stressed "t" followed by "o".
func Transcription(w *utterance.Word) string {
	sylls := make([]string, 0, len(w.Syllables()))
	for _, syl := range w.Syllables() {
		parts := make([]string, 0, len(syl.Phones())+1)
		switch syl.Stress() {
		case utterance.StressPrimary:
			parts = append(parts, acoustic.PrimaryStressMarker)
		case utterance.StressSecondary:
			parts = append(parts, acoustic.SecondaryStressMarker)
		}
		for _, p := range syl.Phones() {
			parts = append(parts, p.Symbol())
		}
		sylls = append(sylls, strings.Join(parts, " "))
	}
	return strings.Join(sylls, " - ")
}
