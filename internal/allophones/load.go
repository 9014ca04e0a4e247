package allophones

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// LoadFile reads an inventory from disk. The format is chosen by extension:
// .xml for allophone XML, .yml/.yaml for YAML.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read inventory: %w", err)
	}

	var set *Set
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		set, err = ParseXML(bytes.NewReader(data))
	case ".yml", ".yaml":
		set, err = ParseYAML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("loaded allophone inventory", "path", path, "locale", set.Locale(), "size", set.Len())
	return set, nil
}

// ParseXML reads an allophone set in the XML layout
//
//	<allophones name="sampa" xml:lang="en-US">
//	  <vowel ph="A" vlng="l"/>
//	  <consonant ph="p" ctype="s"/>
//	</allophones>
//
// Every attribute other than ph is kept as a feature.
func ParseXML(r io.Reader) (*Set, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInventory, err)
	}

	root := xmlquery.FindOne(doc, "/allophones")
	if root == nil {
		return nil, fmt.Errorf("%w: missing <allophones> root", ErrMalformedInventory)
	}

	var lang string
	for _, attr := range root.Attr {
		if attr.Name.Local == "lang" {
			lang = attr.Value
		}
	}
	locale, err := ParseLocale(lang)
	if err != nil {
		return nil, err
	}

	var list []Allophone
	for _, n := range xmlquery.Find(root, "./*") {
		kind, err := parseKind(n.Data)
		if err != nil {
			return nil, err
		}
		a := Allophone{Kind: kind, Features: make(map[string]string)}
		for _, attr := range n.Attr {
			if attr.Name.Local == "ph" {
				a.Name = attr.Value
				continue
			}
			a.Features[attr.Name.Local] = attr.Value
		}
		list = append(list, a)
	}

	return NewSet(root.SelectAttr("name"), locale, list)
}

type yamlInventory struct {
	Name       string          `yaml:"name"`
	Locale     string          `yaml:"locale"`
	Allophones []yamlAllophone `yaml:"allophones"`
}

type yamlAllophone struct {
	Ph       string            `yaml:"ph"`
	Kind     string            `yaml:"kind"`
	Features map[string]string `yaml:"features,omitempty"`
}

// ParseYAML reads an allophone set from YAML.
func ParseYAML(r io.Reader) (*Set, error) {
	var inv yamlInventory
	if err := yaml.NewDecoder(r).Decode(&inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInventory, err)
	}

	locale, err := ParseLocale(inv.Locale)
	if err != nil {
		return nil, err
	}

	list := make([]Allophone, 0, len(inv.Allophones))
	for _, ya := range inv.Allophones {
		kind, err := parseKind(ya.Kind)
		if err != nil {
			return nil, err
		}
		list = append(list, Allophone{Name: ya.Ph, Kind: kind, Features: ya.Features})
	}

	return NewSet(inv.Name, locale, list)
}

// ParseLocale accepts both "en_US" and "en-US" spellings.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, fmt.Errorf("%w: missing locale", ErrMalformedInventory)
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}
