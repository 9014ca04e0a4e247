package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgnsrekt/simplephon/internal/allophones"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	phonemeKind string

	phonemesCmd = &cobra.Command{
		Use:     "phonemes",
		Short:   "List the symbols of the active allophone inventory",
		Example: paragraph("simplephon phonemes --locale de\nsimplephon phonemes --kind vowel"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			cfg.Cache.Enabled = false

			p, _, err := newPipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close() //nolint:errcheck

			_, err = fmt.Fprint(os.Stdout, phonemeTable(p.Inventory(), allophones.Kind(phonemeKind)))
			return err
		},
	}
)

func init() {
	phonemesCmd.Flags().StringVarP(&phonemeKind, "kind", "k", "", "only list vowel, consonant, silence or tone symbols")
}

// phonemeTable lists the symbols of set, optionally restricted to one kind.
func phonemeTable(set *allophones.Set, kind allophones.Kind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s, %d symbols)\n\n", headerStyle.Render("inventory"), set.Name(), set.Locale(), set.Len())

	width := runewidth.StringWidth("SYMBOL")
	for _, name := range set.Names() {
		width = max(width, runewidth.StringWidth(name))
	}

	fmt.Fprintf(&b, "%s  %s  %s\n", headerStyle.Render(pad("SYMBOL", width, false)), headerStyle.Render(pad("KIND", 9, false)), headerStyle.Render("FEATURES"))
	for _, name := range set.Names() {
		a, _ := set.Get(name)
		if kind != "" && a.Kind != kind {
			continue
		}
		symbol := pad(name, width, false)
		if a.IsVowel() {
			symbol = keyword(symbol)
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", symbol, pad(string(a.Kind), 9, false), faintStyle.Render(features(a.Features)))
	}
	return b.String()
}

func features(f map[string]string) string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, " ")
}
