package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/simplephon/internal/acoustic"
	"github.com/dgnsrekt/simplephon/internal/config"
	"github.com/dgnsrekt/simplephon/internal/render"
	"github.com/dgnsrekt/simplephon/utterance"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const maxWordWidth = 24

var (
	inspectText string

	inspectCmd = &cobra.Command{
		Use:     "inspect [SOURCE]",
		Short:   "Show the words, syllables and phones of a transcription",
		Long:    paragraph(fmt.Sprintf("\n%s a transcription as a table of timed phones instead of rendering a document.", keyword("Inspect"))),
		Example: paragraph("simplephon inspect --text \"'t-o m,a-ma\"\nsimplephon inspect words.txt"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectText, "text", "t", "", "inspect this transcription instead of reading a source")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	input, err := readInput(args, inspectText)
	if err != nil {
		return err
	}

	p, _, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	u, err := p.Utterance(input)
	if err != nil {
		return err
	}

	e, _ := config.LoadEnv()
	if e.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	_, err = fmt.Fprint(os.Stdout, inspectTable(u, p.Inventory().Name()))
	return err
}

// readInput returns text when set, else the content of the single source
// argument, else piped stdin.
func readInput(args []string, text string) (string, error) {
	if text != "" {
		if len(args) > 0 {
			return "", errors.New("cannot use --text together with a source argument")
		}
		return text, nil
	}

	arg := "-"
	if len(args) > 0 {
		arg = args[0]
	} else if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if !yes {
		return "", errors.New("nothing to inspect: pass a source, pipe stdin or use --text")
	}

	src, err := sourceFromArg(arg)
	if err != nil {
		return "", err
	}
	defer src.reader.Close() //nolint:errcheck

	b, err := io.ReadAll(src.reader)
	if err != nil {
		return "", fmt.Errorf("unable to read from reader: %w", err)
	}
	return string(b), nil
}

type inspectRow struct {
	word, syllable, stress, phone string
	start, duration, end          int
	stressed                      bool
}

// inspectTable lays out one row per phone. The word and syllable columns are
// only filled on the first phone they contain.
func inspectTable(u *utterance.Utterance, inventory string) string {
	var rows []inspectRow
	phones := 0
	for _, w := range u.Words().Items() {
		word := truncate.StringWithTail(render.Transcription(w), maxWordWidth, "…")
		for _, syl := range w.Syllables() {
			label := syllableLabel(syl)
			if len(syl.Phones()) == 0 {
				rows = append(rows, inspectRow{word: word, syllable: label, stress: syl.Stress().String()})
				word = ""
				continue
			}
			for i, ph := range syl.Phones() {
				r := inspectRow{
					phone:    ph.Symbol(),
					start:    ph.Start(),
					duration: ph.Duration(),
					end:      ph.End(),
					stressed: syl.Stress() != utterance.StressNone,
				}
				if i == 0 {
					r.word, r.syllable, r.stress = word, label, syl.Stress().String()
					word = ""
				}
				rows = append(rows, r)
				phones++
			}
		}
	}

	header := []string{"WORD", "SYLLABLE", "STRESS", "PHONE", "START", "DUR", "END"}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		timing := []string{"", "", ""}
		if r.phone != "" {
			timing = []string{strconv.Itoa(r.start), strconv.Itoa(r.duration), strconv.Itoa(r.end)}
		}
		cells = append(cells, append([]string{r.word, r.syllable, r.stress, r.phone}, timing...))
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(headerStyle.Render(pad(h, widths[i], i >= 4)))
		b.WriteString("  ")
	}
	b.WriteString("\n")
	for ri, row := range cells {
		for i, c := range row {
			cell := pad(c, widths[i], i >= 4)
			if rows[ri].stressed && i == 3 {
				cell = stressStyle.Render(cell)
			}
			b.WriteString(cell)
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%s words, %s phones, %s ms, locale %s, inventory %s",
		humanize.Comma(int64(u.Words().Len())),
		humanize.Comma(int64(phones)),
		humanize.Comma(int64(u.Duration())),
		u.Locale(),
		inventory,
	)))
	b.WriteString("\n")
	return b.String()
}

func syllableLabel(syl *utterance.Syllable) string {
	symbols := make([]string, 0, len(syl.Phones()))
	for _, ph := range syl.Phones() {
		symbols = append(symbols, ph.Symbol())
	}
	label := strings.Join(symbols, " ")
	switch syl.Stress() {
	case utterance.StressPrimary:
		return acoustic.PrimaryStressMarker + label
	case utterance.StressSecondary:
		return acoustic.SecondaryStressMarker + label
	default:
		return label
	}
}

// pad fills s with spaces up to width display cells.
func pad(s string, width int, right bool) string {
	fill := strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
	if right {
		return fill + s
	}
	return s + fill
}
