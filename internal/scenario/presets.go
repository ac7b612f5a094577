package scenario

import (
	"time"

	"kvload/internal/ident"
)

// QuickScenario はクイックテスト用シナリオを返す
// 短時間での動作確認用
func QuickScenario() Config {
	return Config{
		Name:        "quick",
		Description: "Quick test for verification",
		Duration:    5 * time.Second,
		Users:       5,
		SpawnRate:   5,
		WaitMin:     0,
		WaitMax:     time.Second,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  1,
	}
}

// SteadyScenario は一定負荷のシナリオを返す
func SteadyScenario() Config {
	return Config{
		Name:        "steady",
		Description: "Steady mixed read/write load",
		Duration:    30 * time.Second,
		Users:       25,
		SpawnRate:   5,
		WaitMin:     0,
		WaitMax:     time.Second,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  1,
	}
}

// SoakScenario は長時間の耐久シナリオを返す
func SoakScenario() Config {
	return Config{
		Name:        "soak",
		Description: "Long-running soak test at moderate load",
		Duration:    5 * time.Minute,
		Users:       50,
		SpawnRate:   2,
		WaitMin:     0,
		WaitMax:     time.Second,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  1,
	}
}

// SpikeScenario は急激な負荷上昇のシナリオを返す
// 多数のユーザーを高速に起動し、待機なしでリクエストを送る
func SpikeScenario() Config {
	return Config{
		Name:        "spike",
		Description: "Sudden high load with many users and no wait",
		Duration:    30 * time.Second,
		Users:       200,
		SpawnRate:   50,
		WaitMin:     0,
		WaitMax:     100 * time.Millisecond,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  1,
	}
}

// ReadHeavyScenario は読み取り中心のシナリオを返す
// キャッシュ的なアクセスパターンの検証用（読み取り4:書き込み1）
func ReadHeavyScenario() Config {
	return Config{
		Name:        "read-heavy",
		Description: "Read-dominated traffic (4:1 read to write)",
		Duration:    30 * time.Second,
		Users:       25,
		SpawnRate:   5,
		WaitMin:     0,
		WaitMax:     time.Second,
		KeyLength:   ident.DefaultKeyLength,
		WriteWeight: 1,
		ReadWeight:  4,
	}
}

// GetPreset は名前からプリセットシナリオを取得する
func GetPreset(name string) (Config, bool) {
	presets := map[string]func() Config{
		"quick":      QuickScenario,
		"steady":     SteadyScenario,
		"soak":       SoakScenario,
		"spike":      SpikeScenario,
		"read-heavy": ReadHeavyScenario,
	}

	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"quick", "steady", "soak", "spike", "read-heavy"}
}
