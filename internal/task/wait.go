package task

import (
	"math/rand"
	"time"
)

// WaitPolicy はアクション間の待機時間を決定する
type WaitPolicy struct {
	Min time.Duration
	Max time.Duration
}

// Between は [min, max] の一様乱数で待機するポリシーを返す
func Between(min, max time.Duration) WaitPolicy {
	return WaitPolicy{Min: min, Max: max}
}

// Next は次の待機時間を返す
func (w WaitPolicy) Next(r *rand.Rand) time.Duration {
	if w.Max <= w.Min {
		return w.Min
	}
	span := int64(w.Max - w.Min)
	return w.Min + time.Duration(r.Int63n(span+1))
}
