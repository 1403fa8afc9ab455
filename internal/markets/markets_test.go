package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		raw  string
		want Market
		ok   bool
	}{
		{raw: "DELHI BAZAR", want: DelhiBazar, ok: true},
		{raw: "  delhi   bazar (dl) ", want: DelhiBazar, ok: true},
		{raw: "Shri Ganesh", want: ShriGanesh, ok: true},
		{raw: "SHREE GANESH", want: ShriGanesh, ok: true},
		{raw: "FARIDABAD", want: Faridabad, ok: true},
		{raw: "GHAZIYABAD", want: Ghaziyabad, ok: true},
		{raw: "gaziyabad", want: Ghaziyabad, ok: true},
		{raw: "GHAZIABAD", want: Ghaziyabad, ok: true},
		{raw: "GALI", want: Gali, ok: true},
		{raw: "Gali (GL)", want: Gali, ok: true},
		{raw: "DESAWAR", want: Disawer, ok: true},
		{raw: "DISAWER\n", want: Disawer, ok: true},
		{raw: "KALYAN", ok: false},
		{raw: "GALIYARA", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range testCases {
		got, ok := Normalize(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}

func TestNormalizerExtraAliases(t *testing.T) {
	aliases := append([]Alias{}, DefaultAliases...)
	aliases = append(aliases,
		Alias{Label: "dswr", Market: Disawer},
		Alias{Label: "NOT A MARKET", Market: "KALYAN"},
	)
	n := NewNormalizer(aliases)

	got, ok := n.Normalize("DSWR")
	assert.True(t, ok)
	assert.Equal(t, Disawer, got)

	_, ok = n.Normalize("not a market")
	assert.False(t, ok, "aliases to unknown markets are dropped")
}

func TestRankFollowsAll(t *testing.T) {
	for i, m := range All {
		assert.Equal(t, i, Rank(m.ID))
		assert.True(t, Known(m.ID))
	}
	assert.Equal(t, -1, Rank("KALYAN"))
	assert.False(t, Known("KALYAN"))
}
