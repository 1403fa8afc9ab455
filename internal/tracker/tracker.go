package tracker

import (
	"sort"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
)

// Reconcile compares a fresh snapshot with the last saved state and returns
// what should be announced together with the state to save afterwards.
//
// A new day starts from empty results. Pending or missing markets never count
// as a change and never remove a result already recorded for the day. Keys
// outside the fixed market set are ignored.
func Reconcile(snap Snapshot, prior State) (Notification, State) {
	next := prior.Clone()
	if snap.Day != prior.Day {
		next = Empty()
	}
	next.Day = snap.Day

	var changes []Change
	for m, v := range snap.Values {
		if !markets.Known(m) {
			continue
		}
		result, ok := v.Result()
		if !ok {
			continue
		}
		if old, seen := next.Results[m]; seen && old == result {
			continue
		}
		next.Results[m] = result
		changes = append(changes, Change{Market: m, Result: result})
	}
	sortCanonical(changes)

	return Notification{Day: snap.Day, Changes: changes}, next
}

// Rollover reports the closed day's results when snap starts a new day and
// the prior day recorded at least one result.
func Rollover(snap Snapshot, prior State) (Summary, bool) {
	if prior.Day == "" || prior.Day == snap.Day || len(prior.Results) == 0 {
		return Summary{}, false
	}
	var results []Change
	for m, r := range prior.Results {
		if !markets.Known(m) || r == "" {
			continue
		}
		results = append(results, Change{Market: m, Result: r})
	}
	if len(results) == 0 {
		return Summary{}, false
	}
	sortCanonical(results)
	return Summary{Day: prior.Day, Results: results}, true
}

func sortCanonical(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		return markets.Rank(changes[i].Market) < markets.Rank(changes[j].Market)
	})
}
