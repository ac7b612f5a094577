// Package task defines the weighted actions a simulated user may perform.
//
// A Set holds named tasks, each with a relative weight (default 1). Pick
// selects one task per iteration with probability proportional to its weight;
// with equal weights the selection is uniform. Selections are independent of
// one another.
//
// # Basic Usage
//
//	set, err := task.NewSet(
//	    task.Task{Name: "write", Fn: doWrite},
//	    task.Task{Name: "read", Fn: doRead},
//	)
//
//	rnd := rand.New(rand.NewSource(seed))
//	t := set.Pick(rnd)
//	t.Fn(ctx)
//
// # Wait Policy
//
// WaitPolicy models the pause between successive actions of one user:
//
//	wait := task.Between(0, time.Second)
//	time.Sleep(wait.Next(rnd)) // uniform in [0s, 1s]
package task
