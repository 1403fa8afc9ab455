package markets

import (
	"regexp"
	"strings"
)

type Market string

const (
	DelhiBazar Market = "DELHI BAZAR"
	ShriGanesh Market = "SHRI GANESH"
	Faridabad  Market = "FARIDABAD"
	Ghaziyabad Market = "GHAZIYABAD"
	Gali       Market = "GALI"
	Disawer    Market = "DISAWER"
)

type Info struct {
	ID     Market
	NameHi string
	// Result slot in Asia/Kolkata, "HH:MM". A slot may cross midnight.
	SlotStart string
	SlotEnd   string
}

// All is the canonical display order.
var All = []Info{
	{ID: DelhiBazar, NameHi: "दिल्ली बाजार", SlotStart: "15:14", SlotEnd: "15:20"},
	{ID: ShriGanesh, NameHi: "श्री गणेश", SlotStart: "16:47", SlotEnd: "17:00"},
	{ID: Faridabad, NameHi: "फरीदाबाद", SlotStart: "18:14", SlotEnd: "18:20"},
	{ID: Ghaziyabad, NameHi: "गाजियाबाद", SlotStart: "22:10", SlotEnd: "22:20"},
	{ID: Gali, NameHi: "गली", SlotStart: "00:00", SlotEnd: "00:05"},
	{ID: Disawer, NameHi: "दिसावर", SlotStart: "05:14", SlotEnd: "05:20"},
}

var byID, order = index(All)

func index(all []Info) (map[Market]Info, map[Market]int) {
	ids := map[Market]Info{}
	pos := map[Market]int{}
	for i, m := range all {
		ids[m.ID] = m
		pos[m.ID] = i
	}
	return ids, pos
}

func ByID(id Market) (Info, bool) {
	m, ok := byID[id]
	return m, ok
}

// Known reports whether id belongs to the fixed market set.
func Known(id Market) bool {
	_, ok := byID[id]
	return ok
}

// Rank returns the position of id in the canonical order, or -1.
func Rank(id Market) int {
	if i, ok := order[id]; ok {
		return i
	}
	return -1
}

// Alias maps a normalized scraped label to a market. Contains aliases match
// anywhere inside the label; the rest must match the whole label.
type Alias struct {
	Label    string
	Market   Market
	Contains bool
}

var DefaultAliases = []Alias{
	{Label: "DELHI BAZAR", Market: DelhiBazar, Contains: true},
	{Label: "DELHI BAZAAR", Market: DelhiBazar, Contains: true},
	{Label: "DL BAZAR", Market: DelhiBazar},
	{Label: "SHRI GANESH", Market: ShriGanesh, Contains: true},
	{Label: "SRI GANESH", Market: ShriGanesh, Contains: true},
	{Label: "SHREE GANESH", Market: ShriGanesh, Contains: true},
	{Label: "FARIDABAD", Market: Faridabad, Contains: true},
	{Label: "GHAZIYABAD", Market: Ghaziyabad, Contains: true},
	{Label: "GAZIYABAD", Market: Ghaziyabad, Contains: true},
	{Label: "GHAZI", Market: Ghaziyabad, Contains: true},
	{Label: "GAZI", Market: Ghaziyabad, Contains: true},
	{Label: "GALI", Market: Gali},
	{Label: "GL", Market: Gali},
	{Label: "DISAWER", Market: Disawer, Contains: true},
	{Label: "DESAWAR", Market: Disawer, Contains: true},
	{Label: "DISAWAR", Market: Disawer, Contains: true},
	{Label: "DESAWER", Market: Disawer, Contains: true},
}

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	parenRe  = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	symbolRe = regexp.MustCompile(`[^A-Z0-9 ]+`)
)

// Clean upper-cases s and collapses whitespace.
func Clean(s string) string {
	s = strings.ToUpper(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type Normalizer struct {
	exact    map[string]Market
	contains []Alias
}

// NewNormalizer builds a lookup from the alias table. Later aliases with the
// same label override earlier ones.
func NewNormalizer(aliases []Alias) *Normalizer {
	n := &Normalizer{exact: map[string]Market{}}
	for _, a := range aliases {
		label := Clean(a.Label)
		if label == "" || !Known(a.Market) {
			continue
		}
		n.exact[label] = a.Market
		if a.Contains {
			n.contains = append(n.contains, Alias{Label: label, Market: a.Market, Contains: true})
		}
	}
	return n
}

// Normalize maps a raw scraped label to its canonical market.
func (n *Normalizer) Normalize(raw string) (Market, bool) {
	s := Clean(raw)
	if s == "" {
		return "", false
	}
	candidates := []string{s}
	if stripped := Clean(parenRe.ReplaceAllString(s, " ")); stripped != s && stripped != "" {
		candidates = append(candidates, stripped)
	}
	if bare := Clean(symbolRe.ReplaceAllString(s, " ")); bare != s && bare != "" {
		candidates = append(candidates, bare)
	}
	for _, c := range candidates {
		if m, ok := n.exact[c]; ok {
			return m, true
		}
	}
	for _, c := range candidates {
		for _, a := range n.contains {
			if strings.Contains(c, a.Label) {
				return a.Market, true
			}
		}
	}
	return "", false
}

var defaultNormalizer = NewNormalizer(DefaultAliases)

// Normalize uses the default alias table.
func Normalize(raw string) (Market, bool) {
	return defaultNormalizer.Normalize(raw)
}
