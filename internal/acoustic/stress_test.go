package acoustic

import (
	"testing"

	"github.com/dgnsrekt/simplephon/utterance"
	"github.com/google/go-cmp/cmp"
)

func TestParseStress(t *testing.T) {
	tests := []struct {
		token      string
		wantStress utterance.Stress
		wantRest   string
	}{
		{"'ta", utterance.StressPrimary, "ta"},
		{",ta", utterance.StressSecondary, "ta"},
		{"ta", utterance.StressNone, "ta"},
		{"t'a", utterance.StressNone, "t'a"},
		{"''ta", utterance.StressPrimary, "'ta"},
		{"'", utterance.StressPrimary, ""},
		{"", utterance.StressNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			stress, rest := ParseStress(tt.token)
			if stress != tt.wantStress || rest != tt.wantRest {
				t.Errorf("ParseStress(%q) = (%v, %q), want (%v, %q)",
					tt.token, stress, rest, tt.wantStress, tt.wantRest)
			}
		})
	}
}

func TestDurationModel_Duration(t *testing.T) {
	m := DefaultDurationModel()

	tests := []struct {
		name   string
		vowel  bool
		stress utterance.Stress
		want   int
	}{
		{"consonant unstressed", false, utterance.StressNone, 70},
		{"consonant primary", false, utterance.StressPrimary, 70},
		{"consonant secondary", false, utterance.StressSecondary, 70},
		{"vowel unstressed", true, utterance.StressNone, 100},
		{"vowel primary", true, utterance.StressPrimary, 150},
		{"vowel secondary", true, utterance.StressSecondary, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Duration(tt.vowel, tt.stress); got != tt.want {
				t.Errorf("Duration(%v, %v) = %d, want %d", tt.vowel, tt.stress, got, tt.want)
			}
		})
	}
}

func TestDurationModel_Truncates(t *testing.T) {
	m := DurationModel{Consonant: 1, Vowel: 99, PrimaryPercent: 150, SecondaryPercent: 120}
	if got := m.Duration(true, utterance.StressPrimary); got != 148 {
		t.Errorf("Duration() = %d, want 148 (148.5 truncated)", got)
	}
	if got := m.Duration(true, utterance.StressSecondary); got != 118 {
		t.Errorf("Duration() = %d, want 118 (118.8 truncated)", got)
	}
}

func TestTimeline_Continuous(t *testing.T) {
	tl := newTimeline(DefaultDurationModel())
	phones := []utterance.Phone{
		tl.next("t", false, utterance.StressPrimary),
		tl.next("a", true, utterance.StressPrimary),
		tl.next("m", false, utterance.StressNone),
		tl.next("a", true, utterance.StressSecondary),
	}

	wantStarts := []int{0, 70, 220, 290}
	for i, ph := range phones {
		if ph.Start() != wantStarts[i] {
			t.Errorf("phone %d start = %d, want %d", i, ph.Start(), wantStarts[i])
		}
	}
	if tl.offset != 410 {
		t.Errorf("offset = %d, want 410", tl.offset)
	}
}

func TestSplitSyllables(t *testing.T) {
	tests := []struct {
		token string
		want  []string
	}{
		{"ta", []string{"ta"}},
		{"'ta-ma", []string{"'ta", "ma"}},
		{"ta_ma-to", []string{"ta", "ma", "to"}},
		{"ta--ma", []string{"ta", "", "ma"}},
		{"-ta", []string{"", "ta"}},
		{"ta_", []string{"ta", ""}},
		{"-", []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, splitSyllables(tt.token)); diff != "" {
				t.Errorf("splitSyllables(%q) mismatch (-want +got):\n%s", tt.token, diff)
			}
		})
	}
}

func TestLink(t *testing.T) {
	parents := utterance.NewSequence("p")
	children := utterance.NewSequence(1, 2, 3)

	rel, err := Link(parents, children)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	want := []utterance.IntegerPair{{Left: 0, Right: 0}, {Left: 0, Right: 1}, {Left: 0, Right: 2}}
	if diff := cmp.Diff(want, rel.Pairs()); diff != "" {
		t.Errorf("Link() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Link(utterance.NewSequence[string](), children); err == nil {
		t.Error("Link() with no parent succeeded")
	}
}
