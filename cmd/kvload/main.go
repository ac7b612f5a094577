// Package main is the entry point for kvload.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kvload/internal/api"
	"kvload/internal/config"
	"kvload/internal/events"
	"kvload/internal/logger"
	"kvload/internal/scenario"
	"kvload/internal/stats"
)

var (
	version = "dev"
)

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセットシナリオ名 (quick, steady, soak, spike, read-heavy)")
		host        = flag.String("host", "", "対象ホスト (省略時はKVLOAD_GATEWAY、DNS、localhostの順で解決)")
		port        = flag.Int("port", 0, "対象ポート (0で既定の11000)")
		duration    = flag.Duration("duration", 0, "実行時間 (例: 30s, 5m)")
		users       = flag.Int("users", 0, "模擬ユーザー数")
		spawnRate   = flag.Float64("spawn-rate", 0, "1秒あたりの起動ユーザー数 (0で一括起動)")
		keyLength   = flag.Int("key-length", 0, "キー切り詰め長 (0で既定の4)")
		requests    = flag.Uint64("requests", 0, "リクエスト上限 (0で無制限)")
		metricsAddr = flag.String("metrics-addr", "", "Prometheusエンドポイントのアドレス (例: :9100、空で無効)")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		showVersion = flag.Bool("version", false, "バージョンを表示")
		serverMode  = flag.Bool("server", false, "Web UI サーバーモードで起動")
		serverAddr  = flag.String("addr", ":8089", "サーバーアドレス (例: :8089, 0.0.0.0:3000)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `kvload - Randomized load generator for a key-value store's REST API

Usage:
  kvload [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # プリセットシナリオを実行
  kvload --preset quick

  # 設定ファイルから実行
  kvload --config run.yaml

  # フラグでカスタマイズ
  kvload --preset steady --duration 1m --users 50 --host 10.0.0.5

  # Prometheusエンドポイントを有効化して実行
  kvload --preset soak --metrics-addr :9100

  # プリセット一覧を表示
  kvload --list-presets

  # Web UIサーバーモードで起動
  kvload --server --addr :8089
`)
	}

	flag.Parse()

	// バージョン表示
	if *showVersion {
		fmt.Printf("kvload version %s\n", version)
		return
	}

	// プリセット一覧表示
	if *listPresets {
		printPresets()
		return
	}

	// Prometheusエンドポイント
	if *metricsAddr != "" {
		go func() {
			logger.Info("", "Metrics exposed on %s", *metricsAddr)
			if err := stats.Expose(*metricsAddr); err != nil {
				logger.Error("", "Metrics listener error: %v", err)
			}
		}()
	}

	// Web UIサーバーモード
	if *serverMode {
		if err := runServer(*serverAddr); err != nil {
			logger.Error("", "サーバーエラー: %v", err)
			os.Exit(1)
		}
		return
	}

	// シナリオ設定の決定
	scenarioConfig, err := buildScenarioConfig(
		*configFile, *presetName, *host, *port, *duration, *users, *spawnRate, *keyLength, *requests,
	)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	// シナリオ実行
	if err := runScenario(scenarioConfig); err != nil {
		logger.Error("", "シナリオ実行エラー: %v", err)
		os.Exit(1)
	}
}

// buildScenarioConfig はシナリオ設定を構築する
func buildScenarioConfig(
	configFile, presetName, host string, port int,
	duration time.Duration, users int, spawnRate float64,
	keyLength int, requests uint64,
) (scenario.Config, error) {
	var cfg scenario.Config

	// 1. 設定ファイルから読み込み
	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, fmt.Errorf("設定検証エラー: %w", err)
		}
		cfg, err = fileConfig.ToScenarioConfig()
		if err != nil {
			return cfg, fmt.Errorf("設定変換エラー: %w", err)
		}
	} else if presetName != "" {
		// 2. プリセットから読み込み
		preset, ok := scenario.GetPreset(presetName)
		if !ok {
			return cfg, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", presetName, scenario.ListPresets())
		}
		cfg = preset
	} else {
		// 3. デフォルト（quickシナリオ）
		cfg = scenario.QuickScenario()
	}

	// フラグでオーバーライド
	if host != "" {
		cfg.Host = host
	}
	if port > 0 {
		cfg.Port = port
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if users > 0 {
		cfg.Users = users
	}
	if spawnRate > 0 {
		cfg.SpawnRate = spawnRate
	}
	if keyLength > 0 {
		cfg.KeyLength = keyLength
	}
	if requests > 0 {
		cfg.RequestsLimit = requests
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("設定検証エラー: %w", err)
	}

	return cfg, nil
}

// runScenario はシナリオを実行する
func runScenario(cfg scenario.Config) error {
	fmt.Println("kvload - Randomized KV Store Load Generator")
	fmt.Println("====================================================")
	fmt.Printf("Scenario: %s\n", cfg.Name)
	fmt.Printf("Duration: %v\n", cfg.Duration)
	fmt.Printf("Users: %d, Spawn Rate: %.1f/s\n", cfg.Users, cfg.SpawnRate)
	fmt.Printf("Key Length: %d, Weights: write=%d read=%d\n", cfg.KeyLength, cfg.WriteWeight, cfg.ReadWeight)
	fmt.Println("====================================================")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n中断シグナルを受信、シナリオを終了中...")
		cancel()
	}()

	// 失敗リクエストのみ購読してデバッグログに流す
	bus := events.NewBus()
	failures := bus.SubscribeTypes(events.EventRequestFailed)
	go func() {
		for ev := range failures {
			logger.Debug("", "request failed: %s %s status=%d %s",
				ev.Data.Method, ev.Data.Name, ev.Data.Status, ev.Data.Error)
		}
	}()
	defer bus.Close()

	// シナリオ実行
	engine := scenario.New(cfg)
	engine.SetEventBus(bus)
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	// レポート出力
	fmt.Println(result.Report())

	return nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets() {
	fmt.Println("利用可能なプリセットシナリオ:")
	fmt.Println()

	for _, name := range scenario.ListPresets() {
		cfg, _ := scenario.GetPreset(name)
		fmt.Printf("  %-12s %s\n", name, cfg.Description)
	}

	fmt.Println()
	fmt.Println("使用例: kvload --preset quick")
}

// runServer はWeb UIサーバーを起動する
func runServer(addr string) error {
	fmt.Println("kvload - Web UI Server")
	fmt.Println("========================")
	fmt.Printf("Starting server on http://%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n中断シグナルを受信、サーバーを終了中...")
		cancel()
	}()

	server := api.NewServer(addr)
	return server.Start(ctx)
}
