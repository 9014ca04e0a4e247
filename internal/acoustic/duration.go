package acoustic

import (
	"fmt"

	"github.com/dgnsrekt/simplephon/utterance"
)

// DurationModel holds the heuristic phone durations in milliseconds. Stress
// factors are percentages applied to vowels only.
type DurationModel struct {
	Consonant        int
	Vowel            int
	PrimaryPercent   int
	SecondaryPercent int
}

// DefaultDurationModel returns 70 ms consonants and 100 ms vowels, lengthened
// by 50% under primary and 20% under secondary stress.
func DefaultDurationModel() DurationModel {
	return DurationModel{
		Consonant:        70,
		Vowel:            100,
		PrimaryPercent:   150,
		SecondaryPercent: 120,
	}
}

// Validate checks that every duration and factor is positive.
func (m DurationModel) Validate() error {
	switch {
	case m.Consonant <= 0:
		return fmt.Errorf("%w: consonant duration %d", ErrInvalidDuration, m.Consonant)
	case m.Vowel <= 0:
		return fmt.Errorf("%w: vowel duration %d", ErrInvalidDuration, m.Vowel)
	case m.PrimaryPercent <= 0:
		return fmt.Errorf("%w: primary stress factor %d%%", ErrInvalidDuration, m.PrimaryPercent)
	case m.SecondaryPercent <= 0:
		return fmt.Errorf("%w: secondary stress factor %d%%", ErrInvalidDuration, m.SecondaryPercent)
	}
	return nil
}

// Duration returns the length of a phone. Fractions are truncated.
func (m DurationModel) Duration(vowel bool, stress utterance.Stress) int {
	if !vowel {
		return m.Consonant
	}
	switch stress {
	case utterance.StressPrimary:
		return m.Vowel * m.PrimaryPercent / 100
	case utterance.StressSecondary:
		return m.Vowel * m.SecondaryPercent / 100
	default:
		return m.Vowel
	}
}

// timeline hands out phones on one continuous time axis. It lives for a
// single conversion and is never reset between words or syllables.
type timeline struct {
	model  DurationModel
	offset int
}

func newTimeline(model DurationModel) *timeline {
	return &timeline{model: model}
}

// next creates the phone starting at the current offset and advances it.
func (t *timeline) next(symbol string, vowel bool, stress utterance.Stress) utterance.Phone {
	dur := t.model.Duration(vowel, stress)
	ph := utterance.NewPhone(symbol, t.offset, dur)
	t.offset += dur
	return ph
}
