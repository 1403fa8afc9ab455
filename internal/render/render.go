package render

import (
	"strings"
	"unicode/utf8"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

const (
	headerLine    = "🔛खबर की जानकारी😘"
	footerLine    = "√√√√√√√√√√√√√√√√√"
	SummaryBanner = "🕉Antaryami Baba🕉:"
)

// nameWidth is the column the result starts at, counted in runes.
const nameWidth = 16

// Line is one rendered market row.
type Line struct {
	Market markets.Market
	Text   string
}

type Output struct {
	Text  string
	Lines []Line
}

// BuildMessage renders changes for day. Lines come out in the order given,
// which the tracker already makes canonical. prefix, when set, goes above the
// header.
func BuildMessage(day string, changes []tracker.Change, prefix string) Output {
	var parts []string
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, headerLine, "📅 "+day+" का अपडेट")

	lines := make([]Line, 0, len(changes))
	for _, c := range changes {
		name := string(c.Market)
		if it, ok := markets.ByID(c.Market); ok {
			name = it.NameHi
		}
		ln := Line{Market: c.Market, Text: pad(name) + c.Result}
		lines = append(lines, ln)
		parts = append(parts, ln.Text)
	}
	parts = append(parts, footerLine)

	return Output{Text: strings.Join(parts, "\n"), Lines: lines}
}

func BuildNotification(n tracker.Notification) Output {
	return BuildMessage(n.Day, n.Changes, "")
}

// BuildSummary renders the closing summary of a finished day.
func BuildSummary(s tracker.Summary) Output {
	return BuildMessage(s.Day, s.Results, SummaryBanner)
}

func pad(name string) string {
	n := utf8.RuneCountInString(name)
	if n >= nameWidth {
		return name + " "
	}
	return name + strings.Repeat(" ", nameWidth-n)
}
