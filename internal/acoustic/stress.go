package acoustic

import (
	"strings"

	"github.com/dgnsrekt/simplephon/utterance"
)

// Stress markers prefixing a syllable token.
const (
	PrimaryStressMarker   = "'"
	SecondaryStressMarker = ","
)

// ParseStress reads the stress marker at the start of a syllable token and
// returns the stress level with the marker removed. Tokens without a marker
// are returned unchanged with StressNone.
func ParseStress(token string) (utterance.Stress, string) {
	if rest, ok := strings.CutPrefix(token, PrimaryStressMarker); ok {
		return utterance.StressPrimary, rest
	}
	if rest, ok := strings.CutPrefix(token, SecondaryStressMarker); ok {
		return utterance.StressSecondary, rest
	}
	return utterance.StressNone, token
}
