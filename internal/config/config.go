package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kvload/internal/scenario"

	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Run RunConfig `yaml:"run" json:"run"`
}

// RunConfig は負荷試験の設定
type RunConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Duration    string `yaml:"duration" json:"duration"`

	Target  TargetConfig  `yaml:"target" json:"target"`
	Users   UsersConfig   `yaml:"users" json:"users"`
	Traffic TrafficConfig `yaml:"traffic" json:"traffic"`
}

// TargetConfig は対象ホストの設定
type TargetConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// UsersConfig は模擬ユーザーの設定
type UsersConfig struct {
	Count     int     `yaml:"count" json:"count"`
	SpawnRate float64 `yaml:"spawn_rate" json:"spawn_rate"`
	WaitMin   string  `yaml:"wait_min" json:"wait_min"`
	WaitMax   string  `yaml:"wait_max" json:"wait_max"`
}

// TrafficConfig はトラフィックの設定
type TrafficConfig struct {
	KeyLength     int    `yaml:"key_length" json:"key_length"`
	WriteWeight   int    `yaml:"write_weight" json:"write_weight"`
	ReadWeight    int    `yaml:"read_weight" json:"read_weight"`
	RequestsLimit uint64 `yaml:"requests_limit" json:"requests_limit"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToScenarioConfig はFileConfigをscenario.Configに変換する
func (f *FileConfig) ToScenarioConfig() (scenario.Config, error) {
	rc := f.Run

	// デフォルト値の設定
	config := scenario.DefaultConfig()

	if rc.Name != "" {
		config.Name = rc.Name
	}
	if rc.Description != "" {
		config.Description = rc.Description
	}
	if rc.Duration != "" {
		d, err := time.ParseDuration(rc.Duration)
		if err != nil {
			return config, fmt.Errorf("invalid duration: %w", err)
		}
		config.Duration = d
	}

	// Target設定
	if rc.Target.Host != "" {
		config.Host = rc.Target.Host
	}
	if rc.Target.Port > 0 {
		config.Port = rc.Target.Port
	}

	// Users設定
	if rc.Users.Count > 0 {
		config.Users = rc.Users.Count
	}
	if rc.Users.SpawnRate > 0 {
		config.SpawnRate = rc.Users.SpawnRate
	}
	if rc.Users.WaitMin != "" {
		d, err := time.ParseDuration(rc.Users.WaitMin)
		if err != nil {
			return config, fmt.Errorf("invalid wait_min: %w", err)
		}
		config.WaitMin = d
	}
	if rc.Users.WaitMax != "" {
		d, err := time.ParseDuration(rc.Users.WaitMax)
		if err != nil {
			return config, fmt.Errorf("invalid wait_max: %w", err)
		}
		config.WaitMax = d
	}

	// Traffic設定
	if rc.Traffic.KeyLength > 0 {
		config.KeyLength = rc.Traffic.KeyLength
	}
	if rc.Traffic.WriteWeight > 0 {
		config.WriteWeight = rc.Traffic.WriteWeight
	}
	if rc.Traffic.ReadWeight > 0 {
		config.ReadWeight = rc.Traffic.ReadWeight
	}
	if rc.Traffic.RequestsLimit > 0 {
		config.RequestsLimit = rc.Traffic.RequestsLimit
	}

	return config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	rc := f.Run

	if rc.Target.Port < 0 {
		return fmt.Errorf("target.port must be non-negative")
	}

	if rc.Users.Count < 0 {
		return fmt.Errorf("users.count must be non-negative")
	}

	if rc.Users.SpawnRate < 0 {
		return fmt.Errorf("users.spawn_rate must be non-negative")
	}

	if rc.Traffic.KeyLength < 0 {
		return fmt.Errorf("traffic.key_length must be non-negative")
	}

	if rc.Traffic.WriteWeight < 0 || rc.Traffic.ReadWeight < 0 {
		return fmt.Errorf("traffic weights must be non-negative")
	}

	return nil
}
