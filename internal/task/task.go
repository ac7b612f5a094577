package task

import (
	"context"
	"fmt"
	"math/rand"
)

// Fn はアクションの実行関数
type Fn func(ctx context.Context)

// Task は名前付きの重み付きアクション
type Task struct {
	Name   string
	Weight int // 0以下でデフォルト重み1
	Fn     Fn
}

// Set は重み付きアクションの集合
type Set struct {
	tasks   []Task
	weights []int
	total   int
}

// NewSet は新しいアクション集合を作成する
// 重みが指定されていないアクションは重み1として扱う
func NewSet(tasks ...Task) (*Set, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task set must contain at least one task")
	}

	s := &Set{
		tasks:   make([]Task, len(tasks)),
		weights: make([]int, len(tasks)),
	}

	for i, t := range tasks {
		if t.Name == "" {
			return nil, fmt.Errorf("task %d has no name", i)
		}
		if t.Fn == nil {
			return nil, fmt.Errorf("task %q has no function", t.Name)
		}
		w := t.Weight
		if w <= 0 {
			w = 1
		}
		s.tasks[i] = t
		s.weights[i] = w
		s.total += w
	}

	return s, nil
}

// Pick は重みに比例した確率でアクションを1つ選択する
func (s *Set) Pick(r *rand.Rand) Task {
	n := r.Intn(s.total)
	for i, w := range s.weights {
		n -= w
		if n < 0 {
			return s.tasks[i]
		}
	}
	// total > 0 である限り到達しない
	return s.tasks[len(s.tasks)-1]
}

// Len はアクション数を返す
func (s *Set) Len() int {
	return len(s.tasks)
}

// Names は登録順のアクション名を返す
func (s *Set) Names() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.Name
	}
	return names
}
