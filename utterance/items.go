package utterance

// Stress is the lexical stress level of a syllable.
type Stress int

const (
	// StressNone marks an unstressed syllable
	StressNone Stress = iota

	// StressPrimary marks a syllable carrying primary stress
	StressPrimary

	// StressSecondary marks a syllable carrying secondary stress
	StressSecondary
)

// String returns the string representation of the stress level
func (s Stress) String() string {
	switch s {
	case StressNone:
		return "none"
	case StressPrimary:
		return "primary"
	case StressSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known stress levels.
func (s Stress) Valid() bool {
	return s >= StressNone && s <= StressSecondary
}

// PressureAccent is the accent pattern given to stressed syllables.
const PressureAccent = "*"

// Accent is a tonal accent tag. A single Accent is shared by pointer between a
// word and its stressed syllables.
type Accent struct {
	tone string
}

// NewAccent creates an accent with the given tone pattern.
func NewAccent(tone string) *Accent {
	return &Accent{tone: tone}
}

// Tone returns the accent pattern.
func (a *Accent) Tone() string {
	return a.tone
}

// Phone is a single timed phone.
type Phone struct {
	symbol   string
	start    int
	duration int
}

// NewPhone creates a phone starting at start (ms) and lasting duration (ms).
func NewPhone(symbol string, start, duration int) Phone {
	return Phone{symbol: symbol, start: start, duration: duration}
}

// Symbol returns the phoneme identifier.
func (p Phone) Symbol() string { return p.symbol }

// Start returns the start offset in milliseconds.
func (p Phone) Start() int { return p.start }

// Duration returns the duration in milliseconds.
func (p Phone) Duration() int { return p.duration }

// End returns the offset at which the phone ends.
func (p Phone) End() int { return p.start + p.duration }

// Syllable groups phones under one stress level.
type Syllable struct {
	phones []Phone
	stress Stress
	accent *Accent
}

// NewSyllable creates a syllable. The phone slice is owned by the syllable.
func NewSyllable(phones []Phone, stress Stress) *Syllable {
	return &Syllable{phones: phones, stress: stress}
}

// Phones returns the syllable's phones in order.
func (s *Syllable) Phones() []Phone { return s.phones }

// Stress returns the stress level.
func (s *Syllable) Stress() Stress { return s.stress }

// Accent returns the accent, or nil when the syllable carries none.
func (s *Syllable) Accent() *Accent { return s.accent }

// SetAccent attaches an accent to the syllable.
func (s *Syllable) SetAccent(a *Accent) { s.accent = a }

// Word groups syllables.
type Word struct {
	text      string
	syllables []*Syllable
	accent    *Accent
}

// NewWord creates a word with the given surface text.
func NewWord(text string, syllables []*Syllable) *Word {
	return &Word{text: text, syllables: syllables}
}

// Text returns the surface text, which may be empty.
func (w *Word) Text() string { return w.text }

// Syllables returns the syllables in order.
func (w *Word) Syllables() []*Syllable { return w.syllables }

// Accent returns the word accent, or nil.
func (w *Word) Accent() *Accent { return w.accent }

// SetAccent attaches an accent to the word.
func (w *Word) SetAccent(a *Accent) { w.accent = a }

// Phones returns all phones of the word in document order.
func (w *Word) Phones() []Phone {
	var phones []Phone
	for _, syl := range w.syllables {
		phones = append(phones, syl.phones...)
	}
	return phones
}

// Boundary describes the prosodic break closing a phrase.
type Boundary struct {
	// Tone is the break index (4 is a default phrase break)
	Tone int

	// Duration is the pause length in milliseconds
	Duration int
}

// DefaultBoundary is the break placed after a synthesized phrase.
func DefaultBoundary() Boundary {
	return Boundary{Tone: 4, Duration: 400}
}

// Phrase is an intonation phrase closed by a boundary.
type Phrase struct {
	boundary Boundary
}

// NewPhrase creates a phrase with the given boundary.
func NewPhrase(b Boundary) *Phrase {
	return &Phrase{boundary: b}
}

// Boundary returns the closing boundary.
func (p *Phrase) Boundary() Boundary { return p.boundary }

// Sentence is a sentence with optional surface text.
type Sentence struct {
	text string
}

// NewSentence creates a sentence.
func NewSentence(text string) *Sentence {
	return &Sentence{text: text}
}

// Text returns the surface text.
func (s *Sentence) Text() string { return s.text }

// Paragraph is a paragraph with optional surface text.
type Paragraph struct {
	text string
}

// NewParagraph creates a paragraph.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{text: text}
}

// Text returns the surface text.
func (p *Paragraph) Text() string { return p.text }
