// Package runner simulates concurrent users generating load.
//
// Each simulated user is an independent goroutine that loops: pick a weighted
// action, execute it synchronously, then wait a uniformly random interval
// before the next iteration. Users never coordinate or share state; each
// carries its own random source. Stopping the runner cancels in-flight waits
// and requests through the shared context.
//
// Users are started at a configurable spawn rate (users per second, paced by
// a rate limiter) or all at once when no rate is set.
//
// # Basic Usage
//
//	set, _ := task.NewSet(writeTask, readTask)
//	collector := stats.New()
//
//	r := runner.New(set, collector, runner.Config{
//	    Users:     50,
//	    SpawnRate: 10,
//	    Wait:      task.Between(0, time.Second),
//	})
//
//	snap := r.RunFor(ctx, 30*time.Second)
//	fmt.Printf("Total: %d, RPS: %.2f\n", snap.TotalRequests, snap.OverallRPS)
package runner
