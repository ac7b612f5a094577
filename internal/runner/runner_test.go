package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"kvload/internal/stats"
	"kvload/internal/task"
)

// countingSet returns a task set whose single task records a sample per call.
func countingSet(t *testing.T, collector *stats.Collector, calls *atomic.Uint64) *task.Set {
	t.Helper()
	set, err := task.NewSet(task.Task{
		Name: "noop",
		Fn: func(ctx context.Context) {
			calls.Add(1)
			collector.Record(stats.Sample{Name: "/key", Method: "GET", Status: 200, Latency: time.Microsecond})
		},
	})
	if err != nil {
		t.Fatalf("failed to create task set: %v", err)
	}
	return set
}

func TestDefaultRunnerConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Users != 0 {
		t.Errorf("expected 0 (CPU count) users, got %d", config.Users)
	}
	if config.Wait.Min != 0 || config.Wait.Max != time.Second {
		t.Errorf("expected wait [0s, 1s], got [%v, %v]", config.Wait.Min, config.Wait.Max)
	}
}

func TestRunnerStartStop(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 4
	config.Wait = task.Between(0, time.Millisecond)
	r := New(set, collector, config)

	if r.IsRunning() {
		t.Error("expected runner to not be running initially")
	}

	ctx := context.Background()
	r.Start(ctx)
	if !r.IsRunning() {
		t.Error("expected runner to be running after Start")
	}

	time.Sleep(50 * time.Millisecond)

	r.Stop()
	if r.IsRunning() {
		t.Error("expected runner to not be running after Stop")
	}

	if calls.Load() == 0 {
		t.Error("expected some task executions")
	}
	if collector.TotalRequests() == 0 {
		t.Error("expected some requests recorded")
	}
	if r.SpawnedUsers() != 4 {
		t.Errorf("expected 4 spawned users, got %d", r.SpawnedUsers())
	}
}

func TestRunnerRunFor(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 2
	config.Wait = task.Between(0, time.Millisecond)
	r := New(set, collector, config)

	snapshot := r.RunFor(context.Background(), 100*time.Millisecond)

	if snapshot.TotalRequests == 0 {
		t.Error("expected some requests")
	}
	if snapshot.Elapsed < 100*time.Millisecond {
		t.Errorf("expected at least 100ms elapsed, got %v", snapshot.Elapsed)
	}
}

func TestRunnerRequestsLimit(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 4
	config.Wait = task.Between(0, 0)
	config.RequestsLimit = 100
	r := New(set, collector, config)

	r.RunFor(context.Background(), 500*time.Millisecond)

	total := collector.TotalRequests()
	if total < 100 {
		t.Errorf("expected at least 100 requests, got %d", total)
	}
	// The limit is checked before each iteration, so overshoot is bounded
	// by the number of concurrent users.
	if total > 100+4 {
		t.Errorf("expected at most %d requests, got %d", 100+4, total)
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 2
	// Long waits: cancellation must interrupt them promptly.
	config.Wait = task.Between(time.Hour, time.Hour)
	r := New(set, collector, config)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestRunnerSpawnRate(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 10
	config.SpawnRate = 20 // ~0.5s to spawn all 10 users
	config.Wait = task.Between(time.Millisecond, time.Millisecond)
	r := New(set, collector, config)

	ctx := context.Background()
	r.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	early := r.SpawnedUsers()
	if early >= 10 {
		t.Errorf("expected spawn pacing to delay some users, got %d spawned after 100ms", early)
	}

	time.Sleep(700 * time.Millisecond)
	if got := r.SpawnedUsers(); got != 10 {
		t.Errorf("expected all 10 users spawned, got %d", got)
	}

	r.Stop()
}

func TestRunnerDoubleStart(t *testing.T) {
	collector := stats.New()
	var calls atomic.Uint64
	set := countingSet(t, collector, &calls)

	config := DefaultConfig()
	config.Users = 1
	config.Wait = task.Between(0, time.Millisecond)
	r := New(set, collector, config)

	ctx := context.Background()
	r.Start(ctx)
	r.Start(ctx) // no-op
	time.Sleep(20 * time.Millisecond)
	r.Stop()
	r.Stop() // no-op

	if r.SpawnedUsers() != 1 {
		t.Errorf("expected 1 spawned user, got %d", r.SpawnedUsers())
	}
}
