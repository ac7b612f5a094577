package scenario

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kvload/internal/events"
	"kvload/internal/gateway"
	"kvload/internal/ident"
	"kvload/internal/logger"
	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/target"
	"kvload/internal/task"
)

// Config はシナリオの設定
type Config struct {
	Name        string        // シナリオ名
	Description string        // 説明
	Duration    time.Duration // 実行時間

	// 対象設定
	Host string // 対象ホスト（空で自動検出）
	Port int    // 対象ポート（0でgateway.DefaultPort）

	// ユーザー設定
	Users     int           // 模擬ユーザー数
	SpawnRate float64       // 1秒あたりの起動ユーザー数（0で一括起動）
	WaitMin   time.Duration // アクション間待機の下限
	WaitMax   time.Duration // アクション間待機の上限

	// トラフィック設定
	KeyLength     int    // キー切り詰め長（0でident.DefaultKeyLength）
	WriteWeight   int    // 書き込みアクションの重み（0で1）
	ReadWeight    int    // 読み取りアクションの重み（0で1）
	RequestsLimit uint64 // リクエスト上限（0で無制限）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		Description: "Default load scenario",
		Duration:    10 * time.Second,
		Port:        gateway.DefaultPort,
		Users:       10,
		SpawnRate:   5,
		WaitMin:     0,
		WaitMax:     time.Second,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  1,
	}
}

// Result はシナリオ実行結果
type Result struct {
	ScenarioName string
	BaseURL      string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Users        int

	// トラフィック統計
	TotalRequests   uint64
	SuccessRequests uint64
	FailedRequests  uint64
	ErrorRate       float64
	OverallRPS      float64
	AvgLatency      time.Duration
	P99Latency      time.Duration

	// メトリクス名別の内訳
	PerName map[string]stats.NameSnapshot
}

// Engine はシナリオ実行エンジン
type Engine struct {
	config   Config
	eventBus *events.Bus

	collector *stats.Collector
	runner    *runner.Runner

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
}

// New は新しいEngineを作成する
func New(config Config) *Engine {
	return &Engine{
		config: config,
	}
}

// SetEventBus はイベントバスを設定する
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.eventBus = bus
}

// Run はシナリオを実行する
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("scenario is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.cancel = nil
		e.mu.Unlock()
	}()

	// 対象ホストは起動時に一度だけ解決し、以後は不変
	host := gateway.Resolve(e.config.Host)
	baseURL := gateway.BaseURL(host, e.config.Port)

	logger.Info("", "=== Scenario '%s' started ===", e.config.Name)
	logger.Info("", "Description: %s", e.config.Description)
	logger.Info("", "Target: %s", baseURL)

	result := &Result{
		ScenarioName: e.config.Name,
		BaseURL:      baseURL,
		StartTime:    time.Now(),
	}

	if err := e.setup(baseURL); err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	if e.eventBus != nil {
		e.eventBus.Publish(events.NewRunStartedEvent(e.config.Name, e.runner.Users()))
	}

	// シナリオ実行
	scenarioCtx, cancel := context.WithTimeout(ctx, e.config.Duration)
	defer cancel()

	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.runner.Start(scenarioCtx)
	<-scenarioCtx.Done()

	logger.Info("", "Scenario duration completed, stopping users...")
	e.runner.Stop()

	// 結果収集
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Users = e.runner.Users()
	e.collectResults(result)

	if e.eventBus != nil {
		e.eventBus.Publish(events.NewRunFinishedEvent(e.config.Name))
	}

	logger.Info("", "=== Scenario '%s' completed ===", e.config.Name)

	return result, nil
}

// setup はシナリオ実行前のセットアップ
func (e *Engine) setup(baseURL string) error {
	collector := stats.New()
	client := target.New(baseURL)

	gen := ident.NewGenerator(e.config.KeyLength)

	// 書き込み: 新しい識別子から短いキーと値を導出してPOST
	write := task.Task{
		Name:   "write",
		Weight: e.config.WriteWeight,
		Fn: func(ctx context.Context) {
			key, value := gen.Pair()
			e.record(client.Put(ctx, key, value))
		},
	}

	// 読み取り: 短いキーのみ導出してGET
	read := task.Task{
		Name:   "read",
		Weight: e.config.ReadWeight,
		Fn: func(ctx context.Context) {
			e.record(client.Get(ctx, gen.Key()))
		},
	}

	set, err := task.NewSet(write, read)
	if err != nil {
		return fmt.Errorf("failed to build task set: %w", err)
	}

	r := runner.New(set, collector, runner.Config{
		Users:         e.config.Users,
		SpawnRate:     e.config.SpawnRate,
		Wait:          task.Between(e.config.WaitMin, e.config.WaitMax),
		RequestsLimit: e.config.RequestsLimit,
	})
	if e.eventBus != nil {
		r.SetEventBus(e.eventBus)
	}

	// Metricsと並行して参照されるフィールドはロック下で公開する
	e.mu.Lock()
	e.collector = collector
	e.runner = r
	e.mu.Unlock()

	return nil
}

// record はサンプルを集計し、失敗をイベントとして通知する
func (e *Engine) record(s stats.Sample) {
	e.collector.Record(s)

	if e.eventBus != nil && s.Failed() {
		errMsg := ""
		if s.Err != nil {
			errMsg = s.Err.Error()
		}
		e.eventBus.Publish(events.NewRequestFailedEvent(s.Name, s.Method, s.Status, errMsg))
	}
}

// collectResults は結果を収集する
func (e *Engine) collectResults(result *Result) {
	snapshot := e.collector.Snapshot()
	result.TotalRequests = snapshot.TotalRequests
	result.SuccessRequests = snapshot.SuccessRequests
	result.FailedRequests = snapshot.FailedRequests
	result.ErrorRate = snapshot.ErrorRate
	result.OverallRPS = snapshot.OverallRPS
	result.AvgLatency = snapshot.AverageLatency
	result.P99Latency = snapshot.P99Latency
	result.PerName = snapshot.PerName
}

// Stop は実行中のシナリオを中断する
func (e *Engine) Stop() {
	e.mu.RLock()
	cancel := e.cancel
	e.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Config は設定を返す
func (e *Engine) Config() Config {
	return e.config
}

// Metrics は現在の集計値のスナップショットを返す
func (e *Engine) Metrics() *stats.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.collector == nil {
		return nil
	}
	snapshot := e.collector.Snapshot()
	return &snapshot
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	report := fmt.Sprintf(`
================================================================================
                         LOAD TEST REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Target:         %s
  Start Time:     %s
  End Time:       %s
  Duration:       %v
  Users:          %d

TRAFFIC METRICS
---------------
  Total Requests:   %d
  Success:          %d
  Failed:           %d
  Error Rate:       %.2f%%
  Overall RPS:      %.2f
  Avg Latency:      %v
  P99 Latency:      %v

PER-ENDPOINT BREAKDOWN
----------------------
`,
		r.ScenarioName,
		r.BaseURL,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Duration.Round(time.Millisecond),
		r.Users,
		r.TotalRequests,
		r.SuccessRequests,
		r.FailedRequests,
		r.ErrorRate*100,
		r.OverallRPS,
		r.AvgLatency.Round(time.Microsecond),
		r.P99Latency.Round(time.Microsecond),
	)

	names := make([]string, 0, len(r.PerName))
	for name := range r.PerName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ns := r.PerName[name]
		report += fmt.Sprintf("  %-20s requests=%-8d failures=%d\n", name+":", ns.Requests, ns.Failures)
	}

	report += "\n================================================================================"

	return report
}

// Validate は設定を検証する
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if c.Users < 0 {
		return fmt.Errorf("users must be non-negative")
	}
	if c.SpawnRate < 0 {
		return fmt.Errorf("spawn_rate must be non-negative")
	}
	if c.WaitMin < 0 {
		return fmt.Errorf("wait_min must be non-negative")
	}
	if c.WaitMax < c.WaitMin {
		return fmt.Errorf("wait_max must be >= wait_min")
	}
	if c.KeyLength < 0 || c.KeyLength > ident.CanonicalLength {
		return fmt.Errorf("key_length must be between 0 and %d", ident.CanonicalLength)
	}
	if c.WriteWeight < 0 || c.ReadWeight < 0 {
		return fmt.Errorf("action weights must be non-negative")
	}
	return nil
}
