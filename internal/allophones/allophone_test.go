package allophones

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	set, err := NewSet("test", language.AmericanEnglish, []Allophone{
		{Name: "t", Kind: KindConsonant},
		{Name: "tS", Kind: KindConsonant},
		{Name: "m", Kind: KindConsonant},
		{Name: "a", Kind: KindVowel},
		{Name: "aI", Kind: KindVowel},
		{Name: "o", Kind: KindVowel},
	})
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	return set
}

func names(list []Allophone) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name
	}
	return out
}

func TestSet_Split(t *testing.T) {
	set := testSet(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "single consonant", text: "t", want: []string{"t"}},
		{name: "longest match wins", text: "tSaI", want: []string{"tS", "aI"}},
		{name: "falls back to shorter match", text: "ta", want: []string{"t", "a"}},
		{name: "markers skipped", text: "'m,a-t_o", want: []string{"m", "a", "t", "o"}},
		{name: "whitespace skipped", text: " m a ", want: []string{"m", "a"}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.Split(tt.text)
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tt.text, err)
			}
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestSet_SplitVowelFlag(t *testing.T) {
	got, err := testSet(t).Split("tSaI")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].IsVowel() || !got[1].IsVowel() {
		t.Errorf("Split() vowel flags = %v, %v, want false, true", got[0].IsVowel(), got[1].IsVowel())
	}
}

func TestSet_SplitUnknown(t *testing.T) {
	set := testSet(t)

	_, err := set.Split("maxo")
	var perr *InvalidPhonemeError
	if !errors.As(err, &perr) {
		t.Fatalf("Split() error = %v, want *InvalidPhonemeError", err)
	}
	if perr.Symbol != "x" || perr.Position != 2 {
		t.Errorf("InvalidPhonemeError = {%q, %d}, want {\"x\", 2}", perr.Symbol, perr.Position)
	}
	if !strings.Contains(err.Error(), "maxo") {
		t.Errorf("Error() = %q, want it to mention the text", err.Error())
	}

	_, err = set.Split("S")
	if !errors.As(err, &perr) {
		t.Fatalf("Split() error = %v, want *InvalidPhonemeError", err)
	}
	if diff := cmp.Diff([]string{"tS"}, perr.Suggestions); diff != "" {
		t.Errorf("Suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSet_Errors(t *testing.T) {
	tests := []struct {
		name string
		list []Allophone
	}{
		{name: "empty", list: nil},
		{name: "nameless", list: []Allophone{{Kind: KindVowel}}},
		{name: "duplicate", list: []Allophone{{Name: "a", Kind: KindVowel}, {Name: "a", Kind: KindVowel}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSet("x", language.English, tt.list); !errors.Is(err, ErrMalformedInventory) {
				t.Errorf("NewSet() error = %v, want ErrMalformedInventory", err)
			}
		})
	}
}

func TestSet_Digest(t *testing.T) {
	a := testSet(t)
	b := testSet(t)
	if a.Digest() != b.Digest() {
		t.Error("Digest() differs for identical inventories")
	}

	c, err := NewSet("test", language.AmericanEnglish, []Allophone{{Name: "t", Kind: KindVowel}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Digest() == c.Digest() {
		t.Error("Digest() equal for different inventories")
	}
}

func TestParseXML(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<allophones name="mini" xml:lang="en-GB">
  <silence ph="_"/>
  <vowel ph="A" vlng="l"/>
  <consonant ph="p" ctype="s" cvox="-"/>
</allophones>`

	set, err := ParseXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	if set.Name() != "mini" || set.Locale() != language.BritishEnglish {
		t.Errorf("ParseXML() = {%q, %v}, want {mini, en-GB}", set.Name(), set.Locale())
	}
	p, ok := set.Get("p")
	if !ok {
		t.Fatal("Get(p) not found")
	}
	if diff := cmp.Diff(map[string]string{"ctype": "s", "cvox": "-"}, p.Features); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
	if a, _ := set.Get("A"); !a.IsVowel() {
		t.Error("A should be a vowel")
	}
}

func TestParseXML_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong root", doc: `<phones xml:lang="en"/>`},
		{name: "unknown kind", doc: `<allophones name="x" xml:lang="en"><click ph="!"/></allophones>`},
		{name: "no locale", doc: `<allophones name="x"><vowel ph="a"/></allophones>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseXML(strings.NewReader(tt.doc)); !errors.Is(err, ErrMalformedInventory) {
				t.Errorf("ParseXML() error = %v, want ErrMalformedInventory", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "mini.yml")
	content := "name: mini\nlocale: fr\nallophones:\n  - ph: a\n    kind: vowel\n  - ph: b\n    kind: consonant\n"
	if err := os.WriteFile(yml, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := LoadFile(yml)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if set.Locale() != language.French || set.Len() != 2 {
		t.Errorf("LoadFile() = {%v, %d}, want {fr, 2}", set.Locale(), set.Len())
	}

	txt := filepath.Join(dir, "mini.txt")
	if err := os.WriteFile(txt, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadFile(.txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseLocale(t *testing.T) {
	for _, s := range []string{"en_US", "en-US"} {
		tag, err := ParseLocale(s)
		if err != nil {
			t.Fatalf("ParseLocale(%q) error = %v", s, err)
		}
		if tag != language.AmericanEnglish {
			t.Errorf("ParseLocale(%q) = %v, want en-US", s, tag)
		}
	}
	if _, err := ParseLocale("not a locale"); err == nil {
		t.Error("ParseLocale() accepted an invalid locale")
	}
}
