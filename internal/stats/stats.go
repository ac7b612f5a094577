package stats

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Sample は1リクエストの観測結果
type Sample struct {
	Name    string        // 正規化されたメトリクス名（例: /key）
	Method  string        // HTTPメソッド
	Status  int           // HTTPステータスコード（接続失敗時は0）
	Latency time.Duration // リクエスト所要時間
	Err     error         // 接続エラー等（レスポンスを受信できた場合はnil）
}

// Failed はサンプルが失敗を表すかどうかを返す
// 非2xxステータスと接続エラーの両方を失敗として扱う
func (s Sample) Failed() bool {
	if s.Err != nil {
		return true
	}
	return s.Status < 200 || s.Status >= 300
}

// Collector はリクエストのサンプルを集計する
type Collector struct {
	totalRequests   atomic.Uint64
	successRequests atomic.Uint64
	failedRequests  atomic.Uint64
	totalLatencyNs  atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	lastResetTime     time.Time
	windowRequests    uint64
	latencies         []time.Duration
	latencySeen       int64
	maxLatencySamples int
	rng               *rand.Rand
	perName           map[string]*nameCounts
}

type nameCounts struct {
	requests uint64
	failures uint64
}

// New は新しいCollectorを作成する
func New() *Collector {
	now := time.Now()
	return &Collector{
		startTime:         now,
		lastResetTime:     now,
		latencies:         make([]time.Duration, 0, 1000),
		maxLatencySamples: 1000,
		rng:               rand.New(rand.NewSource(now.UnixNano())),
		perName:           make(map[string]*nameCounts),
	}
}

// Record はサンプルを記録する
// 成否にかかわらずレイテンシとメトリクス名別の集計に反映される
func (c *Collector) Record(s Sample) {
	c.totalRequests.Add(1)
	c.totalLatencyNs.Add(uint64(s.Latency.Nanoseconds()))

	failed := s.Failed()
	if failed {
		c.failedRequests.Add(1)
	} else {
		c.successRequests.Add(1)
	}

	c.mu.Lock()
	c.windowRequests++
	if !failed {
		// リザーバサンプリング: バッファは実行全体から一様に抽出された
		// サンプルを保持する（先頭区間に偏らない）
		c.latencySeen++
		if len(c.latencies) < c.maxLatencySamples {
			c.latencies = append(c.latencies, s.Latency)
		} else if j := c.rng.Int63n(c.latencySeen); j < int64(c.maxLatencySamples) {
			c.latencies[j] = s.Latency
		}
	}
	nc, ok := c.perName[s.Name]
	if !ok {
		nc = &nameCounts{}
		c.perName[s.Name] = nc
	}
	nc.requests++
	if failed {
		nc.failures++
	}
	c.mu.Unlock()

	observe(s)
}

// TotalRequests は総リクエスト数を返す
func (c *Collector) TotalRequests() uint64 {
	return c.totalRequests.Load()
}

// SuccessRequests は成功リクエスト数を返す
func (c *Collector) SuccessRequests() uint64 {
	return c.successRequests.Load()
}

// FailedRequests は失敗リクエスト数を返す
func (c *Collector) FailedRequests() uint64 {
	return c.failedRequests.Load()
}

// RPS は直近ウィンドウのRequests Per Secondを返す
func (c *Collector) RPS() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elapsed := time.Since(c.lastResetTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(c.windowRequests) / elapsed
}

// OverallRPS は開始からの平均RPSを返す
func (c *Collector) OverallRPS() float64 {
	elapsed := time.Since(c.startTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(c.totalRequests.Load()) / elapsed
}

// AverageLatency は平均レイテンシを返す
func (c *Collector) AverageLatency() time.Duration {
	total := c.totalRequests.Load()
	if total == 0 {
		return 0
	}
	avgNs := c.totalLatencyNs.Load() / total
	return time.Duration(avgNs)
}

// P99Latency はP99レイテンシを返す（サンプルベース）
func (c *Collector) P99Latency() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(c.latencies))
	copy(sorted, c.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ErrorRate はエラー率を返す（0.0〜1.0）
func (c *Collector) ErrorRate() float64 {
	total := c.totalRequests.Load()
	if total == 0 {
		return 0
	}
	return float64(c.failedRequests.Load()) / float64(total)
}

// Reset はウィンドウメトリクスをリセットする
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.windowRequests = 0
	c.lastResetTime = time.Now()
	c.latencies = c.latencies[:0]
	c.latencySeen = 0
}

// NameSnapshot はメトリクス名別の集計値
type NameSnapshot struct {
	Requests uint64 `json:"requests"`
	Failures uint64 `json:"failures"`
}

// Snapshot はCollectorのスナップショット
type Snapshot struct {
	TotalRequests   uint64
	SuccessRequests uint64
	FailedRequests  uint64
	RPS             float64
	OverallRPS      float64
	AverageLatency  time.Duration
	P99Latency      time.Duration
	ErrorRate       float64
	Elapsed         time.Duration
	PerName         map[string]NameSnapshot
}

// Snapshot は現在の集計値のスナップショットを返す
func (c *Collector) Snapshot() Snapshot {
	perName := make(map[string]NameSnapshot)
	c.mu.RLock()
	for name, nc := range c.perName {
		perName[name] = NameSnapshot{Requests: nc.requests, Failures: nc.failures}
	}
	c.mu.RUnlock()

	return Snapshot{
		TotalRequests:   c.TotalRequests(),
		SuccessRequests: c.SuccessRequests(),
		FailedRequests:  c.FailedRequests(),
		RPS:             c.RPS(),
		OverallRPS:      c.OverallRPS(),
		AverageLatency:  c.AverageLatency(),
		P99Latency:      c.P99Latency(),
		ErrorRate:       c.ErrorRate(),
		Elapsed:         time.Since(c.startTime),
		PerName:         perName,
	}
}
