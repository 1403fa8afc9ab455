package tracker

import (
	"encoding/json"
	"time"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
)

// Value is either a settled result or Pending. The zero value is Pending.
type Value struct {
	result  string
	settled bool
}

// Pending means the market has no result yet for the day.
var Pending = Value{}

// Settled returns a settled value. An empty result is Pending.
func Settled(result string) Value {
	if result == "" {
		return Pending
	}
	return Value{result: result, settled: true}
}

func (v Value) IsPending() bool { return !v.settled }

// Result returns the settled result and whether v is settled.
func (v Value) Result() (string, bool) { return v.result, v.settled }

func (v Value) String() string {
	if !v.settled {
		return "pending"
	}
	return v.result
}

// Snapshot is one scrape of the result page for a collection day.
type Snapshot struct {
	Day       string
	FetchedAt time.Time
	Values    map[markets.Market]Value
}

// NewSnapshot copies values so later writes to the caller's map don't leak in.
func NewSnapshot(day string, fetchedAt time.Time, values map[markets.Market]Value) Snapshot {
	cp := make(map[markets.Market]Value, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Snapshot{Day: day, FetchedAt: fetchedAt, Values: cp}
}

// State is the durable record of what has already been announced.
type State struct {
	Day     string                    `json:"day"`
	Results map[markets.Market]string `json:"results"`
}

// Empty is the default state used on first run and on unreadable storage.
func Empty() State {
	return State{Results: map[markets.Market]string{}}
}

func (s State) Clone() State {
	out := State{Day: s.Day, Results: make(map[markets.Market]string, len(s.Results))}
	for k, v := range s.Results {
		out.Results[k] = v
	}
	return out
}

// Equal reports whether both states carry the same day and results.
func (s State) Equal(o State) bool {
	if s.Day != o.Day || len(s.Results) != len(o.Results) {
		return false
	}
	for k, v := range s.Results {
		if ov, ok := o.Results[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// UnmarshalJSON keeps Results non-nil and accepts "day": null.
func (s *State) UnmarshalJSON(b []byte) error {
	var raw struct {
		Day     *string                   `json:"day"`
		Results map[markets.Market]string `json:"results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Empty()
	if raw.Day != nil {
		s.Day = *raw.Day
	}
	for k, v := range raw.Results {
		if v == "" {
			continue
		}
		s.Results[k] = v
	}
	return nil
}

type Change struct {
	Market markets.Market
	Result string
}

// Notification lists changed markets in canonical order. It is empty when
// nothing needs to be sent.
type Notification struct {
	Day     string
	Changes []Change
}

func (n Notification) Empty() bool { return len(n.Changes) == 0 }

// Summary is the full set of settled results of a closed day.
type Summary struct {
	Day     string
	Results []Change
}
