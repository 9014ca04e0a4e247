package acoustic

import (
	"strings"

	"github.com/dgnsrekt/simplephon/internal/allophones"
	"github.com/dgnsrekt/simplephon/utterance"
	"golang.org/x/text/unicode/norm"
)

// Syllable separators inside a word token. Both are equivalent.
const syllableSeparators = "-_"

// Splitter splits a syllable's phone string into inventory symbols.
// *allophones.Set implements it.
type Splitter interface {
	Split(text string) ([]allophones.Allophone, error)
}

// builder turns a transcription into words. One builder serves one
// conversion; its timeline carries the running offset.
type builder struct {
	splitter Splitter
	timeline *timeline
}

// buildWords tokenizes text into words, syllables and timed phones.
func (b *builder) buildWords(text string) (*utterance.Sequence[*utterance.Word], error) {
	words := utterance.NewSequence[*utterance.Word]()

	for _, token := range strings.Fields(norm.NFC.String(text)) {
		w, err := b.buildWord(token)
		if err != nil {
			return nil, err
		}
		words.Add(w)
	}

	return words, nil
}

func (b *builder) buildWord(token string) (*utterance.Word, error) {
	parts := splitSyllables(token)
	syllables := make([]*utterance.Syllable, 0, len(parts))
	var stressed []*utterance.Syllable

	for _, part := range parts {
		stress, phones := ParseStress(part)

		list, err := b.splitter.Split(phones)
		if err != nil {
			return nil, err
		}

		timed := make([]utterance.Phone, 0, len(list))
		for _, a := range list {
			timed = append(timed, b.timeline.next(a.Name, a.IsVowel(), stress))
		}

		syl := utterance.NewSyllable(timed, stress)
		if stress != utterance.StressNone {
			stressed = append(stressed, syl)
		}
		syllables = append(syllables, syl)
	}

	w := utterance.NewWord("", syllables)
	if len(stressed) > 0 {
		accent := utterance.NewAccent(utterance.PressureAccent)
		w.SetAccent(accent)
		for _, syl := range stressed {
			syl.SetAccent(accent)
		}
	}

	return w, nil
}

// splitSyllables splits a word token on either separator. Empty tokens are
// kept, so "a--b" yields "a", "", "b".
func splitSyllables(token string) []string {
	var parts []string
	start := 0
	for i, r := range token {
		if strings.ContainsRune(syllableSeparators, r) {
			parts = append(parts, token[start:i])
			start = i + 1
		}
	}
	return append(parts, token[start:])
}
