package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/char5742/touch-gestures/internal/consts"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Device  DeviceConfig  `toml:"device"`
	Gesture GestureConfig `toml:"gesture"`
	API     APIConfig     `toml:"api"`
}

// DeviceConfig はタッチコントローラデバイスの設定
type DeviceConfig struct {
	Path         string        `toml:"path"`
	PollInterval time.Duration `toml:"poll_interval"`
}

// GestureConfig はジェスチャー検出の設定
type GestureConfig struct {
	// 起動時に有効化するジェスチャーマスク（16進文字列、最大GestureMaskSizeバイト）
	MaskPreset string `toml:"mask_preset"`
	// モード遷移時に常にマスクを再送するか
	ForceReload bool `toml:"force_reload"`
}

// APIConfig はAPIサーバーの設定
type APIConfig struct {
	Port int `toml:"port"`
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Path:         "/dev/touch_controller",
			PollInterval: 10 * time.Millisecond,
		},
		Gesture: GestureConfig{
			MaskPreset:  "",
			ForceReload: false,
		},
		API: APIConfig{
			Port: 8080,
		},
	}
}

// MaskPresetBytes は設定されたマスクプリセットをバイト列に変換する
// プリセットが空の場合はnilを返す
func (c *Config) MaskPresetBytes() ([]byte, error) {
	if c.Gesture.MaskPreset == "" {
		return nil, nil
	}

	mask, err := hex.DecodeString(c.Gesture.MaskPreset)
	if err != nil {
		return nil, fmt.Errorf("マスクプリセットの解析に失敗しました: %w", err)
	}
	if len(mask) > consts.GestureMaskSize {
		return nil, fmt.Errorf("マスクプリセットが大きすぎます: %d > %d", len(mask), consts.GestureMaskSize)
	}
	return mask, nil
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "touch-gestures"), nil
}

// LoadConfig は設定ファイルから設定を読み込む
func LoadConfig(configPath string) (*Config, error) {
	// デフォルト設定を用意
	config := DefaultConfig()

	// ファイルが存在しない場合はデフォルト設定を保存して返す
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// 設定ディレクトリの作成
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return config, err
		}

		// デフォルト設定の保存
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}

		return config, nil
	}

	// 設定ファイルの読み込み
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	// 設定ディレクトリの作成
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// ファイルを開く（なければ作成）
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// TOML形式でエンコードして書き込み
	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}
