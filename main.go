package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ByLCY/flowpaint/assets"
	"github.com/ByLCY/flowpaint/config"
	"github.com/ByLCY/flowpaint/dsl"
	"github.com/ByLCY/flowpaint/fonts"
	"github.com/ByLCY/flowpaint/layout"
	"github.com/ByLCY/flowpaint/renderer"
	canvasrenderer "github.com/ByLCY/flowpaint/renderer/canvas"
	"github.com/ByLCY/flowpaint/renderer/cells"
	"github.com/ByLCY/flowpaint/renderer/raster"
	"github.com/ByLCY/flowpaint/renderer/record"
)

// pipeName 表示从标准输入读取或写出到标准输出。
const pipeName = "-"

// options 汇总命令行参数。
type options struct {
	input   string
	output  string
	format  string
	config  string
	data    any
	debug   string
	trace   string
	verbose bool
}

func main() {
	input := flag.String("in", "examples/badge.flow", "DSL 文件路径，- 表示标准输入")
	output := flag.String("out", "", "输出路径，- 表示标准输出；term 格式默认输出到标准输出")
	format := flag.String("format", "", "输出格式 png|bmp|pdf|svg|term，默认取配置文件")
	configPath := flag.String("config", "flowpaint.toml", "TOML 配置文件路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	debug := flag.String("debug", "", "布局测量快照 JSON 输出路径")
	trace := flag.String("trace", "", "绘制指令 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出诊断信息")
	initConfig := flag.Bool("init-config", false, "把默认配置写到 -config 指定的路径后退出")
	flag.Parse()

	if *initConfig {
		if err := writeDefaultConfig(*configPath); err != nil {
			log.Fatalf("生成配置失败: %v", err)
		}
		return
	}

	opts := options{
		input:   *input,
		output:  *output,
		format:  *format,
		config:  *configPath,
		debug:   *debug,
		trace:   *trace,
		verbose: *verbose,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &opts.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(opts); err != nil {
		log.Fatalf("生成画面失败: %v", err)
	}
	if opts.verbose && opts.output != pipeName && opts.output != "" {
		log.Printf("已生成：%s", opts.output)
	}
}

// run 串联配置、解析、布局与渲染。
func run(opts options) error {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	if opts.format != "" {
		cfg.Display.Format = opts.format
		config.Clamp(&cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if opts.output == "" {
		if cfg.Display.Format != "term" {
			return errors.New("缺少输出路径 -out")
		}
		opts.output = pipeName
	}
	if opts.verbose {
		log.Printf("配置：%+v", cfg)
	}

	doc, baseDir, err := parseInput(opts.input)
	if err != nil {
		return err
	}

	scene, err := layout.Build(doc, opts.data, layout.BuildOptions{
		Measurer: fonts.Fixed{},
		Images:   assets.NewLoader(baseDir),
		Display:  layout.Size{W: cfg.Display.Width, H: cfg.Display.Height},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if opts.verbose {
		log.Printf("屏幕 %dx%d，格式 %s", scene.Width, scene.Height, cfg.Display.Format)
	}

	if opts.debug != "" {
		if err := ensureDir(opts.debug); err != nil {
			return err
		}
		if err := layout.WriteDebugJSON(scene, opts.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	if opts.trace != "" {
		if err := writeTrace(scene, opts.trace); err != nil {
			return err
		}
	}

	r, err := newRenderer(scene, cfg)
	if err != nil {
		return err
	}
	dst, closeFn, err := openOutput(opts.output, cfg.Display.Format)
	if err != nil {
		return err
	}
	if err := renderer.Render(scene, r, dst); err != nil {
		closeFn()
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("写入输出失败: %w", err)
	}
	return nil
}

func parseInput(path string) (*dsl.Document, string, error) {
	var (
		src     io.Reader
		baseDir string
	)
	if path == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, "", errors.New("`-` 只能用于管道输入")
		}
		src = os.Stdin
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("无法打开 DSL 文件 %s: %w", path, err)
		}
		defer file.Close()
		src = file
		baseDir = filepath.Dir(path)
	}
	doc, err := dsl.Parse(src)
	if err != nil {
		return nil, "", fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return doc, baseDir, nil
}

// newRenderer 按输出格式选择绘制表面。
func newRenderer(scene *layout.Scene, cfg config.Config) (renderer.Renderer, error) {
	switch cfg.Display.Format {
	case "png", "bmp":
		return raster.New(scene.Width, scene.Height, raster.Options{
			Monochrome: cfg.Display.Monochrome,
			Threshold:  uint8(cfg.Display.Threshold),
			Format:     cfg.Display.Format,
		}), nil
	case "pdf", "svg":
		r, err := canvasrenderer.NewRenderer(scene.Width, scene.Height, canvasrenderer.Options{
			Pitch:  cfg.Display.Pitch,
			Format: cfg.Display.Format,
			Font:   canvasrenderer.Resource{Path: cfg.Text.Font},
			Meta:   scene.Meta,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化矢量渲染器失败: %w", err)
		}
		return r, nil
	case "term":
		return cells.New(scene.Width, scene.Height, cells.Options{Frame: cfg.Display.Frame}), nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", cfg.Display.Format)
	}
}

// openOutput 打开输出目标；二进制格式拒绝直接写到终端。
func openOutput(path, format string) (io.Writer, func() error, error) {
	if path == pipeName {
		if format != "term" && format != "svg" && term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, fmt.Errorf("%s 是二进制格式，`-` 只能用于管道输出", strings.ToUpper(format))
		}
		return os.Stdout, func() error { return nil }, nil
	}
	if err := ensureDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("创建输出文件失败: %w", err)
	}
	return file, file.Close, nil
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s 已存在", path)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return config.Write(file, config.Default())
}

func writeTrace(scene *layout.Scene, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 trace 文件失败: %w", err)
	}
	defer file.Close()
	if err := record.Trace(scene).Encode(file); err != nil {
		return fmt.Errorf("输出 trace 失败: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
