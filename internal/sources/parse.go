package sources

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

var resultRegex = regexp.MustCompile(`^[0-9]{1,3}$`)

// ParseResult turns a result cell into a value. Anything that is not a plain
// number ("WAIT", "XX", "--", blank) is pending.
func ParseResult(text string) tracker.Value {
	t := strings.TrimSpace(text)
	if resultRegex.MatchString(t) {
		return tracker.Settled(t)
	}
	return tracker.Pending
}

// ParsePage extracts values for day from the result page.
//
// The live board carries no date, so its entries only count for the markets
// in live, whose result slot is open for day right now. Every other market
// comes from the chart row for day. A live Pending never hides a chart value.
func ParsePage(body []byte, day string, live []markets.Market, norm *markets.Normalizer) (map[markets.Market]tracker.Value, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := parseChart(doc, day, norm)
	if len(live) == 0 {
		return out, nil
	}
	open := make(map[markets.Market]bool, len(live))
	for _, m := range live {
		open[m] = true
	}
	for m, v := range parseLive(doc, norm) {
		if !open[m] {
			continue
		}
		if v.IsPending() {
			if _, ok := out[m]; ok {
				continue
			}
		}
		out[m] = v
	}
	return out, nil
}

// parseLive reads the ".resultmain" board where market names and results are
// sibling lists matched by position.
func parseLive(doc *goquery.Document, norm *markets.Normalizer) map[markets.Market]tracker.Value {
	out := map[markets.Market]tracker.Value{}
	games := doc.Find(".resultmain .livegame")
	vals := doc.Find(".resultmain .liveresult")
	games.Each(func(i int, g *goquery.Selection) {
		m, ok := norm.Normalize(g.Text())
		if !ok || i >= vals.Length() {
			return
		}
		v := ParseResult(vals.Eq(i).Text())
		if prev, seen := out[m]; seen && !prev.IsPending() {
			return
		}
		out[m] = v
	})
	return out
}

// parseChart reads "table.newtable" charts. The header row maps columns to
// markets and the row whose first cell is day holds the results.
func parseChart(doc *goquery.Document, day string, norm *markets.Normalizer) map[markets.Market]tracker.Value {
	out := map[markets.Market]tracker.Value{}
	doc.Find("table.newtable").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return
		}
		cols := map[int]markets.Market{}
		rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
			if m, ok := norm.Normalize(cell.Text()); ok {
				cols[i] = m
			}
		})
		if len(cols) == 0 {
			return
		}
		rows.Slice(1, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.Find("th, td")
			if cells.Length() == 0 || !sameDay(cells.First().Text(), day) {
				return true
			}
			for i, m := range cols {
				if i >= cells.Length() {
					continue
				}
				v := ParseResult(cells.Eq(i).Text())
				if prev, seen := out[m]; seen && !prev.IsPending() {
					continue
				}
				out[m] = v
			}
			return false
		})
	})
	return out
}

func sameDay(cell, day string) bool {
	return strings.TrimSpace(cell) == day
}
