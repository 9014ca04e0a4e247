package render

import (
	"encoding/xml"
	"io"
	"strconv"
)

const (
	maryNamespace = "http://mary.dfki.de/2002/MaryXML"
	maryVersion   = "0.5"
)

type xmlDocument struct {
	XMLName    xml.Name       `xml:"maryxml"`
	Namespace  string         `xml:"xmlns,attr"`
	Version    string         `xml:"version,attr"`
	Lang       string         `xml:"xml:lang,attr"`
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlParagraph struct {
	Text      string        `xml:",chardata"`
	Sentences []xmlSentence `xml:"s"`
}

type xmlSentence struct {
	Text    string      `xml:",chardata"`
	Phrases []xmlPhrase `xml:"phrase"`
}

type xmlPhrase struct {
	Tokens   []xmlToken  `xml:"t"`
	Boundary xmlBoundary `xml:"boundary"`
}

type xmlBoundary struct {
	BreakIndex int `xml:"breakindex,attr"`
	Duration   int `xml:"duration,attr"`
}

type xmlToken struct {
	Ph        string        `xml:"ph,attr"`
	Accent    string        `xml:"accent,attr,omitempty"`
	Text      string        `xml:",chardata"`
	Syllables []xmlSyllable `xml:"syllable"`
}

type xmlSyllable struct {
	Ph     string     `xml:"ph,attr"`
	Stress int        `xml:"stress,attr,omitempty"`
	Accent string     `xml:"accent,attr,omitempty"`
	Phones []xmlPhone `xml:"ph"`
}

// xmlPhone carries the duration in ms and the end time in seconds, as MaryXML
// does.
type xmlPhone struct {
	P   string `xml:"p,attr"`
	D   int    `xml:"d,attr"`
	End string `xml:"end,attr"`
}

func writeXML(w io.Writer, doc *Document) error {
	out := xmlDocument{
		Namespace: maryNamespace,
		Version:   maryVersion,
		Lang:      doc.Locale,
	}

	for _, p := range doc.Paragraphs {
		xp := xmlParagraph{Text: p.Text}
		for _, s := range p.Sentences {
			xs := xmlSentence{Text: s.Text}
			for _, ph := range s.Phrases {
				xph := xmlPhrase{Boundary: xmlBoundary{BreakIndex: ph.Boundary.Tone, Duration: ph.Boundary.Duration}}
				for _, word := range ph.Words {
					xph.Tokens = append(xph.Tokens, newXMLToken(word))
				}
				xs.Phrases = append(xs.Phrases, xph)
			}
			xp.Sentences = append(xp.Sentences, xs)
		}
		out.Paragraphs = append(out.Paragraphs, xp)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func newXMLToken(word Word) xmlToken {
	t := xmlToken{Ph: word.Transcription, Accent: word.Accent, Text: word.Text}
	for _, syl := range word.Syllables {
		xs := xmlSyllable{Stress: syl.Stress, Accent: syl.Accent}
		symbols := make([]byte, 0, 8)
		for i, p := range syl.Phones {
			if i > 0 {
				symbols = append(symbols, ' ')
			}
			symbols = append(symbols, p.Symbol...)
			xs.Phones = append(xs.Phones, xmlPhone{P: p.Symbol, D: p.Duration, End: seconds(p.Start + p.Duration)})
		}
		xs.Ph = string(symbols)
		t.Syllables = append(t.Syllables, xs)
	}
	return t
}

func seconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}
