// Package render serializes utterances to exchange documents: MaryXML-style
// XML, JSON, YAML and MessagePack.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgnsrekt/simplephon/utterance"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output document format.
type Format string

const (
	// FormatXML is MaryXML-style XML
	FormatXML Format = "xml"

	// FormatJSON is indented JSON
	FormatJSON Format = "json"

	// FormatYAML is YAML
	FormatYAML Format = "yaml"

	// FormatMsgpack is MessagePack
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatXML, FormatJSON, FormatYAML, FormatMsgpack}
}

// ParseFormat parses a format name. "yml" and "mpk" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Binary reports whether the format is not human readable.
func (f Format) Binary() bool {
	return f == FormatMsgpack
}

// Render writes u to w in format f.
func Render(w io.Writer, u *utterance.Utterance, f Format) error {
	doc := NewDocument(u)

	switch f {
	case FormatXML:
		return writeXML(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Marshal renders u into a byte slice.
func Marshal(u *utterance.Utterance, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, u, f); err != nil {
		return nil, fmt.Errorf("unable to render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// RenderAll writes several utterances as one output in format f. XML merges
// them into a single document with one paragraph per utterance, JSON writes
// an array, and YAML and MessagePack write a stream of documents. A single
// utterance is written exactly as Render writes it.
func RenderAll(w io.Writer, us []*utterance.Utterance, f Format) error {
	if len(us) == 1 {
		return Render(w, us[0], f)
	}

	docs := make([]*Document, 0, len(us))
	for _, u := range us {
		docs = append(docs, NewDocument(u))
	}

	switch f {
	case FormatXML:
		return writeXML(w, mergeDocuments(docs))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		return enc.Close()
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// MarshalAll renders us into a byte slice.
func MarshalAll(us []*utterance.Utterance, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderAll(&buf, us, f); err != nil {
		return nil, fmt.Errorf("unable to render %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// mergeDocuments joins the paragraphs of docs under the locale of the first.
func mergeDocuments(docs []*Document) *Document {
	merged := &Document{Paragraphs: []Paragraph{}}
	for i, doc := range docs {
		if i == 0 {
			merged.Locale = doc.Locale
		}
		merged.Duration += doc.Duration
		merged.Paragraphs = append(merged.Paragraphs, doc.Paragraphs...)
	}
	return merged
}
