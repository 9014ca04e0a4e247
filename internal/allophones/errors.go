package allophones

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Common inventory errors
var (
	// ErrMalformedInventory indicates an inventory file could not be interpreted
	ErrMalformedInventory = errors.New("malformed allophone inventory")

	// ErrUnknownLocale indicates no inventory is registered for a locale
	ErrUnknownLocale = errors.New("no allophone inventory for locale")

	// ErrUnsupportedFormat indicates an inventory file of an unknown type
	ErrUnsupportedFormat = errors.New("unsupported inventory format")
)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// InvalidPhonemeError is returned by Split when the text contains a symbol
// that is not part of the inventory.
type InvalidPhonemeError struct {
	// Symbol is the first rune that could not be matched
	Symbol string

	// Position is the rune offset of Symbol in Text
	Position int

	// Text is the phone string being split
	Text string

	// Inventory is the name of the inventory
	Inventory string

	// Suggestions are inventory symbols resembling Symbol
	Suggestions []string
}

// Error implements the error interface
func (e *InvalidPhonemeError) Error() string {
	msg := fmt.Sprintf("unknown phoneme %q at position %d in %q (inventory %s)",
		e.Symbol, e.Position, e.Text, e.Inventory)
	if len(e.Suggestions) > 0 {
		msg += ": did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func newInvalidPhonemeError(s *Set, text, symbol string, pos int) *InvalidPhonemeError {
	e := &InvalidPhonemeError{
		Symbol:    symbol,
		Position:  pos,
		Text:      text,
		Inventory: s.name,
	}
	for _, m := range fuzzy.Find(symbol, s.names) {
		e.Suggestions = append(e.Suggestions, m.Str)
		if len(e.Suggestions) == maxSuggestions {
			break
		}
	}
	return e
}
