package task

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func nop(ctx context.Context) {}

func TestNewSetValidation(t *testing.T) {
	if _, err := NewSet(); err == nil {
		t.Error("expected error for empty task set")
	}
	if _, err := NewSet(Task{Name: "", Fn: nop}); err == nil {
		t.Error("expected error for unnamed task")
	}
	if _, err := NewSet(Task{Name: "write"}); err == nil {
		t.Error("expected error for task without function")
	}
}

func TestSetNames(t *testing.T) {
	set, err := NewSet(
		Task{Name: "write", Fn: nop},
		Task{Name: "read", Fn: nop},
	)
	if err != nil {
		t.Fatalf("failed to create set: %v", err)
	}

	names := set.Names()
	if len(names) != 2 || names[0] != "write" || names[1] != "read" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestPickEqualWeights(t *testing.T) {
	// Two tasks with default weights should split approximately 50/50.
	set, err := NewSet(
		Task{Name: "write", Fn: nop},
		Task{Name: "read", Fn: nop},
	)
	if err != nil {
		t.Fatalf("failed to create set: %v", err)
	}

	rnd := rand.New(rand.NewSource(1))
	const trials = 100000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[set.Pick(rnd).Name]++
	}

	for name, n := range counts {
		ratio := float64(n) / trials
		if ratio < 0.48 || ratio > 0.52 {
			t.Errorf("task %s picked with ratio %.4f, expected ~0.5", name, ratio)
		}
	}
}

func TestPickWeighted(t *testing.T) {
	set, err := NewSet(
		Task{Name: "write", Weight: 3, Fn: nop},
		Task{Name: "read", Weight: 1, Fn: nop},
	)
	if err != nil {
		t.Fatalf("failed to create set: %v", err)
	}

	rnd := rand.New(rand.NewSource(2))
	const trials = 100000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[set.Pick(rnd).Name]++
	}

	ratio := float64(counts["write"]) / trials
	if ratio < 0.73 || ratio > 0.77 {
		t.Errorf("weighted task picked with ratio %.4f, expected ~0.75", ratio)
	}
}

func TestPickIndependent(t *testing.T) {
	// Consecutive selections must not correlate: the rate of picking the
	// same task twice in a row should match the product of the marginals.
	set, err := NewSet(
		Task{Name: "write", Fn: nop},
		Task{Name: "read", Fn: nop},
	)
	if err != nil {
		t.Fatalf("failed to create set: %v", err)
	}

	rnd := rand.New(rand.NewSource(3))
	const trials = 100000
	repeats := 0
	prev := set.Pick(rnd).Name
	for i := 0; i < trials; i++ {
		cur := set.Pick(rnd).Name
		if cur == prev {
			repeats++
		}
		prev = cur
	}

	// P(same twice) = 0.5 for independent uniform picks over two tasks.
	ratio := float64(repeats) / trials
	if ratio < 0.48 || ratio > 0.52 {
		t.Errorf("repeat ratio %.4f, expected ~0.5 for independent picks", ratio)
	}
}

func TestWaitPolicyBounds(t *testing.T) {
	wait := Between(0, time.Second)
	rnd := rand.New(rand.NewSource(4))

	for i := 0; i < 10000; i++ {
		d := wait.Next(rnd)
		if d < 0 || d > time.Second {
			t.Fatalf("wait %v out of [0s, 1s]", d)
		}
	}
}

func TestWaitPolicyUniform(t *testing.T) {
	// Bucket the interval into quarters; a uniform draw should land in each
	// quarter roughly 25% of the time.
	wait := Between(0, time.Second)
	rnd := rand.New(rand.NewSource(5))

	const trials = 100000
	var buckets [4]int
	for i := 0; i < trials; i++ {
		d := wait.Next(rnd)
		idx := int(d * 4 / (time.Second + 1))
		buckets[idx]++
	}

	for i, n := range buckets {
		ratio := float64(n) / trials
		if ratio < 0.23 || ratio > 0.27 {
			t.Errorf("bucket %d ratio %.4f, expected ~0.25", i, ratio)
		}
	}
}

func TestWaitPolicyFixed(t *testing.T) {
	wait := Between(time.Second, time.Second)
	rnd := rand.New(rand.NewSource(6))

	if d := wait.Next(rnd); d != time.Second {
		t.Errorf("expected fixed wait 1s, got %v", d)
	}
}
