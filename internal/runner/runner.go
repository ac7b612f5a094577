package runner

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"kvload/internal/events"
	"kvload/internal/logger"
	"kvload/internal/stats"
	"kvload/internal/task"
)

// Config はRunnerの設定
type Config struct {
	Users         int             // 模擬ユーザー数（0でCPU数）
	SpawnRate     float64         // 1秒あたりの起動ユーザー数（0で一括起動）
	Wait          task.WaitPolicy // アクション間の待機時間
	RequestsLimit uint64          // リクエスト上限（0で無制限）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Users:         0, // CPU数
		SpawnRate:     0, // 一括起動
		Wait:          task.Between(0, time.Second),
		RequestsLimit: 0,
	}
}

// Runner は模擬ユーザー群を管理する
// 各ユーザーは独立したゴルーチンで「アクション選択→実行→待機」を繰り返す
type Runner struct {
	config   Config
	tasks    *task.Set
	stats    *stats.Collector
	eventBus *events.Bus

	users   int
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	spawned atomic.Int64
}

// New は新しいRunnerを作成する
func New(tasks *task.Set, collector *stats.Collector, config Config) *Runner {
	users := config.Users
	if users <= 0 {
		users = runtime.NumCPU()
	}
	return &Runner{
		config: config,
		tasks:  tasks,
		stats:  collector,
		users:  users,
	}
}

// SetEventBus はイベントバスを設定する
func (r *Runner) SetEventBus(bus *events.Bus) {
	r.eventBus = bus
}

// Start は模擬ユーザーの起動を開始する
func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return // Already running
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	logger.Info("", "Runner started (users: %d, spawn_rate: %.1f/s, wait: [%v, %v])",
		r.users, r.config.SpawnRate, r.config.Wait.Min, r.config.Wait.Max)

	r.wg.Add(1)
	go r.spawn()
}

// spawn はSpawnRateに従ってユーザーを起動する
func (r *Runner) spawn() {
	defer r.wg.Done()

	var limiter *rate.Limiter
	if r.config.SpawnRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.SpawnRate), 1)
	}

	for i := 0; i < r.users; i++ {
		if limiter != nil {
			if err := limiter.Wait(r.ctx); err != nil {
				return
			}
		}

		select {
		case <-r.ctx.Done():
			return
		default:
		}

		id := fmt.Sprintf("user-%d", i)
		r.wg.Add(1)
		go r.user(i, id)

		r.spawned.Add(1)
		if r.eventBus != nil {
			r.eventBus.Publish(events.NewUserSpawnedEvent(id))
		}
	}

	logger.Info("", "All %d users spawned", r.users)
}

// user は1人の模擬ユーザーのループ
// ユーザー間で状態を共有しないよう、乱数源も個別に持つ
func (r *Runner) user(seq int, id string) {
	defer r.wg.Done()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(seq)<<17))

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		if r.config.RequestsLimit > 0 && r.stats.TotalRequests() >= r.config.RequestsLimit {
			return
		}

		t := r.tasks.Pick(rnd)
		logger.Debug(id, "executing %s", t.Name)
		t.Fn(r.ctx)

		if wait := r.config.Wait.Next(rnd); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-r.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
}

// Stop は全ユーザーを停止する
// 実行中のリクエストや待機はコンテキスト経由で中断される
func (r *Runner) Stop() {
	if !r.running.Swap(false) {
		return // Not running
	}

	r.cancel()
	r.wg.Wait()

	logger.Info("", "Runner stopped (%d users spawned)", r.spawned.Load())
}

// IsRunning は実行中かどうかを返す
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// SpawnedUsers は起動済みユーザー数を返す
func (r *Runner) SpawnedUsers() int {
	return int(r.spawned.Load())
}

// Users は設定されたユーザー数を返す
func (r *Runner) Users() int {
	return r.users
}

// RunFor は指定時間だけ負荷生成を実行する
func (r *Runner) RunFor(ctx context.Context, duration time.Duration) *stats.Snapshot {
	r.Start(ctx)

	select {
	case <-ctx.Done():
	case <-time.After(duration):
	}

	r.Stop()

	snapshot := r.stats.Snapshot()
	return &snapshot
}
