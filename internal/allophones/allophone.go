package allophones

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"golang.org/x/text/language"
)

// Kind classifies an allophone.
type Kind string

const (
	// KindVowel is a vowel
	KindVowel Kind = "vowel"

	// KindConsonant is a consonant
	KindConsonant Kind = "consonant"

	// KindSilence is a pause symbol
	KindSilence Kind = "silence"

	// KindTone is a tone marker
	KindTone Kind = "tone"
)

func parseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindVowel, KindConsonant, KindSilence, KindTone:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown allophone kind %q", ErrMalformedInventory, s)
	}
}

// Allophone is one symbol of an inventory.
type Allophone struct {
	Name     string
	Kind     Kind
	Features map[string]string
}

// IsVowel reports whether the allophone is a vowel.
func (a Allophone) IsVowel() bool {
	return a.Kind == KindVowel
}

// Markers are skipped when splitting: stress marks and syllable separators.
const Markers = "',-_"

// Set is an immutable allophone inventory for one locale. It is safe for
// concurrent use.
type Set struct {
	name   string
	locale language.Tag

	byName map[string]Allophone
	names  []string
	maxLen int
	digest string
}

// NewSet builds a set from allophones. Names must be unique and non-empty.
func NewSet(name string, locale language.Tag, allophones []Allophone) (*Set, error) {
	s := &Set{
		name:   name,
		locale: locale,
		byName: make(map[string]Allophone, len(allophones)),
	}

	for _, a := range allophones {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: allophone without name", ErrMalformedInventory)
		}
		if _, dup := s.byName[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate allophone %q", ErrMalformedInventory, a.Name)
		}
		s.byName[a.Name] = a
		s.names = append(s.names, a.Name)
		if n := utf8.RuneCountInString(a.Name); n > s.maxLen {
			s.maxLen = n
		}
	}
	if len(s.names) == 0 {
		return nil, fmt.Errorf("%w: inventory %q is empty", ErrMalformedInventory, name)
	}
	sort.Strings(s.names)
	s.digest = s.computeDigest()

	return s, nil
}

// Name returns the inventory name (for example "sampa").
func (s *Set) Name() string { return s.name }

// Locale returns the locale the inventory describes.
func (s *Set) Locale() language.Tag { return s.locale }

// Names returns the sorted allophone names.
func (s *Set) Names() []string { return s.names }

// Len returns the number of allophones.
func (s *Set) Len() int { return len(s.names) }

// Get looks up an allophone by name.
func (s *Set) Get(name string) (Allophone, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Digest identifies the inventory contents.
func (s *Set) Digest() string { return s.digest }

// Split splits a phone string into allophones by greedy longest match.
// Whitespace, stress marks and syllable separators are skipped.
func (s *Set) Split(text string) ([]Allophone, error) {
	runes := []rune(text)
	out := make([]Allophone, 0, len(runes))

	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) || strings.ContainsRune(Markers, runes[i]) {
			i++
			continue
		}

		matched := false
		for l := min(s.maxLen, len(runes)-i); l >= 1; l-- {
			if a, ok := s.byName[string(runes[i:i+l])]; ok {
				out = append(out, a)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			return nil, newInvalidPhonemeError(s, text, string(runes[i]), i)
		}
	}

	return out, nil
}

func (s *Set) computeDigest() string {
	h := blake3.New()
	fmt.Fprintf(h, "%s|%s\n", s.name, s.locale)
	for _, name := range s.names {
		a := s.byName[name]
		fmt.Fprintf(h, "%s|%s", a.Name, a.Kind)

		keys := make([]string, 0, len(a.Features))
		for k := range a.Features {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h, "|%s=%s", k, a.Features[k])
		}
		fmt.Fprintln(h)
	}
	return hex.EncodeToString(h.Sum(nil))
}
