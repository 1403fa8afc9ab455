package scheduler

import (
	"testing"
	"time"

	"github.com/Armin-kho/satta-result-bot/internal/logger"
)

func TestSchedulerStopIsPromptAndIdempotent(t *testing.T) {
	h := newHarness(t, "file", Options{})
	s := New(h.runner, h.loc, logger.Discard())
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
