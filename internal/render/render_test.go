package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
)

func TestBuildNotification(t *testing.T) {
	out := BuildNotification(tracker.Notification{
		Day:     "10-05",
		Changes: []tracker.Change{{Market: markets.Disawer, Result: "77"}},
	})

	lines := strings.Split(out.Text, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, headerLine, lines[0])
	assert.Equal(t, "📅 10-05 का अपडेट", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "दिसावर "))
	assert.True(t, strings.HasSuffix(lines[2], "77"))
	assert.Equal(t, footerLine, lines[3])
	require.Len(t, out.Lines, 1)
	assert.Equal(t, markets.Disawer, out.Lines[0].Market)
}

func TestBuildMessageKeepsOrder(t *testing.T) {
	out := BuildMessage("10-05", []tracker.Change{
		{Market: markets.DelhiBazar, Result: "12"},
		{Market: markets.Gali, Result: "42"},
	}, "")
	i := strings.Index(out.Text, "दिल्ली बाजार")
	j := strings.Index(out.Text, "गली")
	assert.True(t, i >= 0 && j > i, "DELHI BAZAR before GALI:\n%s", out.Text)
}

func TestBuildSummary(t *testing.T) {
	out := BuildSummary(tracker.Summary{
		Day:     "09-05",
		Results: []tracker.Change{{Market: markets.Gali, Result: "42"}},
	})
	assert.True(t, strings.HasPrefix(out.Text, SummaryBanner+"\n"+headerLine))
	assert.Contains(t, out.Text, "09-05")
}

func TestPadAlignsResults(t *testing.T) {
	a := pad("गली")
	b := pad("फरीदाबाद")
	assert.Equal(t, len([]rune(a)), len([]rune(b)))
	assert.Equal(t, "UNKNOWN-MARKET-NAME ", pad("UNKNOWN-MARKET-NAME"))
}
