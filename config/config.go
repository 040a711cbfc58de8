// Package config 读取 TOML 格式的显示屏配置。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config 描述输出目标。
type Config struct {
	Display Display `toml:"display"`
	Text    Text    `toml:"text"`
}

// Display 是输出格式与画面参数。
type Display struct {
	// Width/Height 非 0 时覆盖 DSL 中 display 的尺寸。
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Format     string  `toml:"format"` // png | bmp | pdf | svg | term
	Pitch      float64 `toml:"pitch"`  // mm per pixel for pdf/svg
	Monochrome bool    `toml:"monochrome"`
	Threshold  int     `toml:"threshold"`
	Frame      bool    `toml:"frame"` // term 输出是否加边框
}

// Text 配置矢量输出使用的字体。
type Text struct {
	Font string `toml:"font"`
}

var formats = map[string]bool{"png": true, "bmp": true, "pdf": true, "svg": true, "term": true}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Display: Display{
			Format:    "png",
			Pitch:     0.25,
			Threshold: 128,
			Frame:     true,
		},
	}
}

// Clamp 修正越界的数值。
func Clamp(cfg *Config) {
	if cfg.Display.Width < 0 {
		cfg.Display.Width = 0
	}
	if cfg.Display.Height < 0 {
		cfg.Display.Height = 0
	}
	if cfg.Display.Pitch <= 0 {
		cfg.Display.Pitch = 0.25
	}
	if cfg.Display.Threshold <= 0 || cfg.Display.Threshold > 255 {
		cfg.Display.Threshold = 128
	}
	cfg.Display.Format = strings.ToLower(strings.TrimSpace(cfg.Display.Format))
	if cfg.Display.Format == "" {
		cfg.Display.Format = "png"
	}
}

// Validate 检查输出格式。
func (c Config) Validate() error {
	if !formats[c.Display.Format] {
		return fmt.Errorf("不支持的输出格式 %q", c.Display.Format)
	}
	return nil
}

// Load 读取 path 指向的配置并与默认值合并；文件不存在时返回默认配置。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	Clamp(&cfg)
	return cfg, cfg.Validate()
}

// Write 以 TOML 写出配置，供 -init-config 生成模板。
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
