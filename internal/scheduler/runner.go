package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
	"github.com/Armin-kho/satta-result-bot/internal/notify"
	"github.com/Armin-kho/satta-result-bot/internal/render"
	"github.com/Armin-kho/satta-result-bot/internal/store"
	"github.com/Armin-kho/satta-result-bot/internal/tracker"
	"github.com/Armin-kho/satta-result-bot/internal/utils"
)

// Fetcher produces the snapshot for a collection day. live lists the markets
// whose undated live-board value belongs to day.
type Fetcher interface {
	Fetch(ctx context.Context, day string, live []markets.Market) (tracker.Snapshot, error)
}

type Options struct {
	Location *time.Location
	// Cutoff is minutes since midnight; up to it the previous day is open.
	Cutoff      int
	SendSummary bool
	SlotGating  bool
	HistoryDays int
}

// Outcome describes what one cycle did.
type Outcome struct {
	CycleID     string
	Day         string
	Skipped     bool // no slot open
	Open        []markets.Market
	FetchFailed bool
	Summary     *tracker.Summary
	Sent        []tracker.Change
	Saved       bool
}

type Runner struct {
	src    Fetcher
	store  store.Store
	notify notify.Notifier
	opts   Options
	log    logrus.FieldLogger
}

func NewRunner(src Fetcher, st store.Store, n notify.Notifier, opts Options, log logrus.FieldLogger) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Runner{src: src, store: st, notify: n, opts: opts, log: log.WithField("component", "runner")}
}

// RunOnce runs one fetch, reconcile, notify, save cycle.
//
// Live-board values are only trusted for markets whose slot is open now. A
// fetch failure skips the cycle without error. A sent summary is recorded
// before the update goes out; a failed update leaves the results untouched
// so the next cycle retries them. Running twice against the same page sends
// nothing the second time.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (Outcome, error) {
	out := Outcome{CycleID: uuid.NewString()}
	log := r.log.WithField("cycle", out.CycleID)

	local := now.In(r.opts.Location)
	out.Open = OpenMarkets(utils.MinuteOfDay(local))
	if r.opts.SlotGating && len(out.Open) == 0 {
		out.Skipped = true
		log.Debug("no result slot open, skipping")
		return out, nil
	}

	out.Day = utils.CollectionDay(now, r.opts.Location, r.opts.Cutoff)
	log = log.WithField("day", out.Day)

	snap, err := r.src.Fetch(ctx, out.Day, out.Open)
	if err != nil {
		out.FetchFailed = true
		log.WithError(err).Warn("fetch failed, skipping cycle")
		return out, nil
	}

	prior := r.store.Load(ctx)
	var deliveries []store.Delivery

	if r.opts.SendSummary {
		if sum, ok := tracker.Rollover(snap, prior); ok {
			if err := r.notify.Send(ctx, render.BuildSummary(sum).Text); err != nil {
				return out, fmt.Errorf("send summary for %s: %w", sum.Day, err)
			}
			out.Summary = &sum
			deliveries = append(deliveries, r.deliveries(out.CycleID, store.KindSummary, sum.Day, sum.Results, now)...)
			log.WithField("markets", len(sum.Results)).Info("summary sent for closed day")

			// The new day marker is the only record that the summary went out.
			rolled := tracker.Empty()
			rolled.Day = snap.Day
			if err := r.store.Save(ctx, rolled); err != nil {
				r.journal(ctx, log, deliveries, now)
				return out, fmt.Errorf("save rollover to %s: %w", snap.Day, err)
			}
			out.Saved = true
			prior = rolled
		}
	}

	n, next := tracker.Reconcile(snap, prior)
	if !n.Empty() {
		if err := r.notify.Send(ctx, render.BuildNotification(n).Text); err != nil {
			r.journal(ctx, log, deliveries, now)
			return out, fmt.Errorf("send update: %w", err)
		}
		out.Sent = n.Changes
		deliveries = append(deliveries, r.deliveries(out.CycleID, store.KindUpdate, n.Day, n.Changes, now)...)
		for _, c := range n.Changes {
			log.WithFields(logrus.Fields{"market": c.Market, "result": c.Result}).Info("result sent")
		}
	} else {
		log.Debug("no new results")
	}

	if !next.Equal(prior) {
		if err := r.store.Save(ctx, next); err != nil {
			return out, fmt.Errorf("save state: %w", err)
		}
		out.Saved = true
	}

	r.journal(ctx, log, deliveries, now)
	return out, nil
}

func (r *Runner) deliveries(cycleID, kind, day string, changes []tracker.Change, at time.Time) []store.Delivery {
	out := make([]store.Delivery, 0, len(changes))
	for _, c := range changes {
		out = append(out, store.Delivery{
			ID:      uuid.NewString(),
			CycleID: cycleID,
			Kind:    kind,
			Day:     day,
			Market:  c.Market,
			Result:  c.Result,
			SentAt:  at,
		})
	}
	return out
}

// journal records history for stores that keep one. Failures only log.
func (r *Runner) journal(ctx context.Context, log logrus.FieldLogger, ds []store.Delivery, now time.Time) {
	j, ok := r.store.(store.Journal)
	if !ok {
		return
	}
	if err := j.RecordDeliveries(ctx, ds); err != nil {
		log.WithError(err).Warn("record deliveries")
	}
	if r.opts.HistoryDays > 0 {
		cut := now.AddDate(0, 0, -r.opts.HistoryDays)
		if n, err := j.PruneDeliveries(ctx, cut); err != nil {
			log.WithError(err).Warn("prune deliveries")
		} else if n > 0 {
			log.WithField("rows", n).Debug("pruned old deliveries")
		}
	}
}

// OpenMarkets returns, in canonical order, the markets whose result slot
// contains minuteOfDay.
func OpenMarkets(minuteOfDay int) []markets.Market {
	var out []markets.Market
	for _, m := range markets.All {
		start, ok1 := utils.ParseHHMM(m.SlotStart)
		end, ok2 := utils.ParseHHMM(m.SlotEnd)
		if ok1 && ok2 && utils.InWindow(minuteOfDay, start, end) {
			out = append(out, m.ID)
		}
	}
	return out
}

// AnySlotOpen reports whether any market's result slot contains minuteOfDay.
func AnySlotOpen(minuteOfDay int) bool {
	return len(OpenMarkets(minuteOfDay)) > 0
}
