package syncer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerReplacesPending(t *testing.T) {
	s := NewScheduler()
	var first, second atomic.Int32

	s.Schedule(func() { first.Add(1) }, 30*time.Millisecond)
	s.Schedule(func() { second.Add(1) }, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)

	if first.Load() != 0 {
		t.Error("Expected replaced callback to never fire")
	}
	if second.Load() != 1 {
		t.Errorf("Expected latest callback to fire once, got %d", second.Load())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)
	s.Cancel()

	time.Sleep(50 * time.Millisecond)

	if fired.Load() != 0 {
		t.Error("Expected canceled callback to never fire")
	}
}

func TestSchedulerStopRefusesFutureWork(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)
	s.Stop()
	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	if fired.Load() != 0 {
		t.Error("Expected no callback after Stop")
	}
}
