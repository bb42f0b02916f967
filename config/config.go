package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/captionclip/dsl"
	"github.com/ByLCY/captionclip/layout"
)

// DefaultPath 是未指定 -config 时读取的配置文件。
const DefaultPath = "captionclip.yaml"

// 渲染引擎与视频写出方式。
const (
	EngineRaster = "raster"
	EngineCanvas = "canvas"

	EmitterMJPEG  = "mjpeg"
	EmitterFFmpeg = "ffmpeg"
)

// Config 汇总一次运行的全部参数。
type Config struct {
	// 路径
	ImageDir     string `yaml:"image_dir"`
	FontPath     string `yaml:"font_path"`
	AudioPath    string `yaml:"audio_path"`
	SilentOutput string `yaml:"silent_output"`
	FinalOutput  string `yaml:"final_output"`
	DebugLayout  string `yaml:"debug_layout"`

	Video VideoConfig `yaml:"video"`
	Box   BoxConfig   `yaml:"box"`
	Text  TextConfig  `yaml:"text"`

	Engine  string `yaml:"engine"`
	Emitter string `yaml:"emitter"`

	// 字幕来源：QuotesFile 不为空时优先使用其中的 Deck
	Quotes     []string `yaml:"quotes"`
	QuotesFile string   `yaml:"quotes_file"`
	Deck       string   `yaml:"deck"`

	// Seed 为 0 时使用当前时间
	Seed int64 `yaml:"seed"`

	Log LogConfig `yaml:"log"`
}

// VideoConfig 控制静音视频与最终输出的时长。
type VideoConfig struct {
	Duration       float64 `yaml:"duration"`
	FPS            int     `yaml:"fps"`
	TargetDuration float64 `yaml:"target_duration"`
}

// BoxConfig 描述字幕区域，比例可写为 0.9、90% 或 0.9x。
type BoxConfig struct {
	Width        layout.Ratio `yaml:"width"`
	Height       layout.Ratio `yaml:"height"`
	BottomMargin layout.Ratio `yaml:"bottom_margin"`
	ShadowOffset int          `yaml:"shadow_offset"`
}

// TextConfig 是字号搜索范围与兜底折行宽度。
type TextConfig struct {
	StartSize    int `yaml:"start_size"`
	MinSize      int `yaml:"min_size"`
	FallbackWrap int `yaml:"fallback_wrap"`
}

// LogConfig 配置 zap 日志。
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default 返回内置默认配置。
func Default() *Config {
	c := &Config{
		ImageDir:     "Collections",
		FontPath:     "arial.ttf",
		AudioPath:    "audio.wav",
		SilentOutput: "output_video.avi",
		FinalOutput:  "output_video.mov",
		Engine:       EngineRaster,
		Emitter:      EmitterMJPEG,
		Quotes:       append([]string(nil), defaultQuotes...),
		Log:          LogConfig{Level: "info"},
	}
	c.Video = VideoConfig{Duration: 5, FPS: 30, TargetDuration: 10}

	place := layout.DefaultPlaceOptions()
	c.Box = BoxConfig{
		Width:        place.BoxWidth,
		Height:       place.BoxHeight,
		BottomMargin: place.BottomMargin,
		ShadowOffset: place.ShadowOffset,
	}

	fit := layout.DefaultFitOptions()
	c.Text = TextConfig{StartSize: fit.StartSize, MinSize: fit.MinSize, FallbackWrap: layout.DefaultFallbackWidth}
	return c
}

// Load 读取 YAML 配置：文件中出现的字段覆盖默认值，文件不存在时直接使用默认值。
// 随后加载 .env 并应用 CAPTIONCLIP_* 环境变量，最后校验。
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("加载 %s 失败: %w", path, err)
	}
	return nil
}

// ApplyEnv 使用环境变量覆盖路径与引擎设置。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"CAPTIONCLIP_IMAGE_DIR", &c.ImageDir},
		{"CAPTIONCLIP_FONT", &c.FontPath},
		{"CAPTIONCLIP_AUDIO", &c.AudioPath},
		{"CAPTIONCLIP_OUTPUT", &c.FinalOutput},
		{"CAPTIONCLIP_ENGINE", &c.Engine},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
		}
	}
}

func (c *Config) normalize() {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if c.Engine == "" {
		c.Engine = EngineRaster
	}
	c.Emitter = strings.ToLower(strings.TrimSpace(c.Emitter))
	if c.Emitter == "" {
		c.Emitter = EmitterMJPEG
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Text.FallbackWrap <= 0 {
		c.Text.FallbackWrap = layout.DefaultFallbackWidth
	}
	if c.Video.FPS <= 0 {
		c.Video.FPS = 30
	}
}

// Validate 检查配置是否可用于一次运行。
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ImageDir) == "" {
		errs = append(errs, fmt.Errorf("image_dir 不能为空"))
	}
	if strings.TrimSpace(c.SilentOutput) == "" || strings.TrimSpace(c.FinalOutput) == "" {
		errs = append(errs, fmt.Errorf("输出路径不能为空"))
	}
	if c.Video.Duration <= 0 {
		errs = append(errs, fmt.Errorf("video.duration 必须为正数，当前 %g", c.Video.Duration))
	}
	if c.Video.TargetDuration <= 0 {
		errs = append(errs, fmt.Errorf("video.target_duration 必须为正数，当前 %g", c.Video.TargetDuration))
	}
	if c.Box.Width <= 0 || c.Box.Height <= 0 {
		errs = append(errs, fmt.Errorf("字幕区域比例必须为正数"))
	}
	if c.Text.MinSize < 1 || c.Text.StartSize < c.Text.MinSize {
		errs = append(errs, fmt.Errorf("字号范围无效: start=%d min=%d", c.Text.StartSize, c.Text.MinSize))
	}
	switch c.Engine {
	case EngineRaster, EngineCanvas:
	default:
		errs = append(errs, fmt.Errorf("未知渲染引擎 %q", c.Engine))
	}
	switch c.Emitter {
	case EmitterMJPEG, EmitterFFmpeg:
	default:
		errs = append(errs, fmt.Errorf("未知视频写出方式 %q", c.Emitter))
	}
	if len(c.Quotes) == 0 && c.QuotesFile == "" {
		errs = append(errs, fmt.Errorf("未配置任何字幕（quotes 或 quotes_file）"))
	}
	return errors.Join(errs...)
}

// FitOptions 返回字号搜索参数。
func (c *Config) FitOptions() layout.FitOptions {
	return layout.FitOptions{StartSize: c.Text.StartSize, MinSize: c.Text.MinSize}
}

// PlaceOptions 返回字幕区域与阴影参数。
func (c *Config) PlaceOptions() layout.PlaceOptions {
	return layout.PlaceOptions{
		BoxWidth:     c.Box.Width,
		BoxHeight:    c.Box.Height,
		BottomMargin: c.Box.BottomMargin,
		ShadowOffset: c.Box.ShadowOffset,
	}
}

// LoadQuotes 返回候选字幕：优先读取 quotes_file 中的 deck，否则使用 quotes 列表。
func (c *Config) LoadQuotes() ([]string, error) {
	if c.QuotesFile == "" {
		return cleanQuotes(c.Quotes), nil
	}
	file, err := dsl.ParseDeckFile(c.QuotesFile)
	if err != nil {
		return nil, err
	}
	deck, err := file.Deck(c.Deck)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.QuotesFile, err)
	}
	return deck.Texts(), nil
}

func cleanQuotes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
