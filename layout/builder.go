package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/flowpaint/binding"
	"github.com/ByLCY/flowpaint/dsl"
)

// ErrNoDisplay 表示文档缺少 display 段落。
var ErrNoDisplay = errors.New("文档中缺少 display 段落")

// Build 根据 DSL AST 构建布局树，根容器绑定到 display 声明的屏幕尺寸。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量器 TextMeasurer")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	display := doc.Display()
	if display == nil {
		return nil, ErrNoDisplay
	}
	width, height, err := resolveDisplaySize(display.Params)
	if err != nil {
		return nil, err
	}
	if opts.Display.W > 0 {
		width = opts.Display.W
	}
	if opts.Display.H > 0 {
		height = opts.Display.H
	}

	ctx := &buildContext{res: res, data: data, opts: opts}
	root, err := buildRoot(display, width, height, ctx)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Width:  width,
		Height: height,
		Root:   root,
		Meta:   collectMeta(doc),
	}, nil
}

// resources 保存 resources 段落中声明的图片与样式。
type resources struct {
	images map[string]imageResource
	styles map[string]map[string]string
}

// imageResource 记录图片来源与可选的默认显示尺寸。
type imageResource struct {
	src    string
	width  int
	height int
}

type buildContext struct {
	res  resources
	data any
	opts BuildOptions
}

func buildRoot(display *dsl.DisplaySection, width, height int, ctx *buildContext) (Composite, error) {
	var rootCmd *dsl.Command
	for _, stmt := range display.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		name := stmt.Command.Name
		if name != "column" && name != "row" {
			continue
		}
		if rootCmd != nil {
			return nil, fmt.Errorf("%s: display 只能包含一个根容器", stmt.Command.Pos)
		}
		rootCmd = stmt.Command
	}
	if rootCmd == nil {
		return nil, fmt.Errorf("display 段落缺少 column 或 row 根容器")
	}

	style, attrs := parseArgs(rootCmd.Args)
	attrs = mergeStyleAttributes(style, attrs, ctx.res.styles)
	opts, err := containerOptions(attrs, width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rootCmd.Pos, err)
	}
	// 根容器的尺寸始终是屏幕尺寸。
	opts.Width, opts.Height = width, height

	root, err := newComposite(rootCmd.Name, nil, ctx.opts.Measurer, opts)
	if err != nil {
		return nil, err
	}
	if rootCmd.Block != nil {
		if err := processBlock(rootCmd.Block, root, ctx); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// processBlock 依次处理 block 内的命令，支持 column、row、text、image、spacer、each。
// 未知命令被忽略。
func processBlock(block *dsl.Block, parent Composite, ctx *buildContext) error {
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		var err error
		switch cmd.Name {
		case "column", "row":
			err = handleContainer(cmd, parent, ctx)
		case "text":
			err = handleText(cmd, parent, ctx)
		case "image":
			err = handleImage(cmd, parent, ctx)
		case "spacer":
			err = handleSpacer(cmd, parent)
		case "each":
			err = handleEach(cmd, parent, ctx)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func handleContainer(cmd *dsl.Command, parent Composite, ctx *buildContext) error {
	style, attrs := parseArgs(cmd.Args)
	attrs = mergeStyleAttributes(style, attrs, ctx.res.styles)
	pb := parent.Base()
	opts, err := containerOptions(attrs, pb.LayoutWidth, pb.LayoutHeight)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	node, err := newComposite(cmd.Name, parent, nil, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	if cmd.Block != nil {
		if err := processBlock(cmd.Block, node, ctx); err != nil {
			return err
		}
	}
	parent.AddNode(node)
	return nil
}

func handleText(cmd *dsl.Command, parent Composite, ctx *buildContext) error {
	if cmd.Block == nil {
		return fmt.Errorf("%s: text 语句缺少文本块", cmd.Pos)
	}
	style, attrs := parseArgs(cmd.Args)
	attrs = mergeStyleAttributes(style, attrs, ctx.res.styles)
	content := extractText(cmd.Block)
	if content == "" {
		return fmt.Errorf("%s: text 语句缺少文本内容", cmd.Pos)
	}

	opts := DefaultTextOptions()
	if v, ok := attrs["size"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s: 无效的字号等级 %q", cmd.Pos, v)
		}
		opts.Size = n
	}
	if v, ok := attrs["padding"]; ok {
		n, err := parsePixels(v, parent.Base().LayoutWidth)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		opts.Padding = n
	}
	opts.Align = ParseAlign(strings.ToLower(attrs["align"]))

	if _, err := parent.AddText(binding.Interpolate(content, ctx.data), opts); err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return nil
}

func handleImage(cmd *dsl.Command, parent Composite, ctx *buildContext) error {
	name, attrs := parseArgs(cmd.Args)
	ref := imageResource{src: attrs["src"]}
	if name != "" {
		if r, ok := ctx.res.images[name]; ok {
			ref = r
		} else if ref.src == "" {
			return fmt.Errorf("%s: 未声明的图片资源 %s", cmd.Pos, name)
		}
	}
	if ref.src == "" {
		return fmt.Errorf("%s: image 语句缺少图片来源", cmd.Pos)
	}
	if ctx.opts.Images == nil {
		return fmt.Errorf("%s: 缺少图片加载器 ImageSource", cmd.Pos)
	}
	img, err := ctx.opts.Images.Image(binding.Interpolate(ref.src, ctx.data))
	if err != nil {
		return fmt.Errorf("%s: 加载图片 %s 失败: %w", cmd.Pos, ref.src, err)
	}

	pb := parent.Base()
	width, height := ref.width, ref.height
	if width == 0 || height == 0 {
		b := img.Bounds()
		width, height = b.Dx(), b.Dy()
	}
	if v, ok := attrs["width"]; ok {
		if width, err = parsePixels(v, pb.LayoutWidth); err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}
	if v, ok := attrs["height"]; ok {
		if height, err = parsePixels(v, pb.LayoutHeight); err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}

	opts := DefaultImageOptions()
	if v, ok := attrs["padding"]; ok {
		if opts.Padding, err = parsePixels(v, pb.LayoutWidth); err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}
	if v, ok := attrs["wrap"]; ok {
		opts.WrapContent = parseBool(v)
	}
	opts.Align = ParseAlign(strings.ToLower(attrs["align"]))
	if _, err := parent.AddImage(img, width, height, opts); err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return nil
}

// handleSpacer 解析 `spacer 4` 或 `spacer 10% outline true`。
func handleSpacer(cmd *dsl.Command, parent Composite) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: spacer 语句缺少高度", cmd.Pos)
	}
	height, err := parsePixels(cmd.Args[0].Text, parent.Base().LayoutHeight)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	_, attrs := parseArgs(cmd.Args[1:])
	if _, err := parent.AddSpacer(height, parseBool(attrs["outline"])); err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return nil
}

// handleEach 对数据中的数组逐项展开 block，当前项以 item、下标以 index 暴露给插值。
func handleEach(cmd *dsl.Command, parent Composite, ctx *buildContext) error {
	if len(cmd.Args) == 0 || cmd.Block == nil {
		return fmt.Errorf("%s: each 语句需要数据路径与子内容", cmd.Pos)
	}
	path := joinArgs(cmd.Args)
	for i, item := range binding.List(ctx.data, path) {
		scope := map[string]any{}
		if m, ok := ctx.data.(map[string]any); ok {
			for k, v := range m {
				scope[k] = v
			}
		}
		scope["item"] = item
		scope["index"] = float64(i)
		child := &buildContext{res: ctx.res, data: scope, opts: ctx.opts}
		if err := processBlock(cmd.Block, parent, child); err != nil {
			return err
		}
	}
	return nil
}

func newComposite(kind string, parent Container, m TextMeasurer, opts Options) (Composite, error) {
	if kind == "row" {
		return NewRow(parent, m, opts)
	}
	return NewColumn(parent, m, opts)
}

// containerOptions 解析 column/row 的属性；wrap 默认开启。
func containerOptions(attrs map[string]string, refW, refH int) (Options, error) {
	opts := Options{WrapContent: true}
	var err error
	if v, ok := attrs["width"]; ok {
		if opts.Width, err = parsePixels(v, refW); err != nil {
			return opts, err
		}
	}
	if v, ok := attrs["height"]; ok {
		if opts.Height, err = parsePixels(v, refH); err != nil {
			return opts, err
		}
	}
	if v, ok := attrs["padding"]; ok {
		if opts.Padding, err = parsePixels(v, refW); err != nil {
			return opts, err
		}
	}
	if v, ok := attrs["wrap"]; ok {
		opts.WrapContent = parseBool(v)
	}
	opts.Outline = parseBool(attrs["outline"])
	opts.Align = ParseAlign(strings.ToLower(attrs["align"]))
	return opts, nil
}

func collectResources(doc *dsl.Document) (resources, error) {
	res := resources{
		images: map[string]imageResource{},
		styles: map[string]map[string]string{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || len(cmd.Args) == 0 {
				continue
			}
			name := cmd.Args[0].Text
			props := blockProps(cmd.Block)
			switch cmd.Name {
			case "image":
				ref := imageResource{src: props["src"]}
				if ref.src == "" {
					return res, fmt.Errorf("%s: 图片资源 %s 缺少 src", cmd.Pos, name)
				}
				var err error
				if ref.width, err = resourcePixels(props, "width"); err != nil {
					return res, fmt.Errorf("%s: 图片资源 %s: %w", cmd.Pos, name, err)
				}
				if ref.height, err = resourcePixels(props, "height"); err != nil {
					return res, fmt.Errorf("%s: 图片资源 %s: %w", cmd.Pos, name, err)
				}
				res.images[name] = ref
			case "style":
				res.styles[name] = props
			}
		}
	}
	return res, resolveStyles(res.styles)
}

// resolveStyles 展开 extends 链，子样式覆盖父样式。
func resolveStyles(styles map[string]map[string]string) error {
	resolved := map[string]bool{}
	var resolve func(name string, visiting map[string]bool) error
	resolve = func(name string, visiting map[string]bool) error {
		if resolved[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("样式 %s 存在循环继承", name)
		}
		visiting[name] = true
		props := styles[name]
		if base := props["extends"]; base != "" {
			parent, ok := styles[base]
			if !ok {
				return fmt.Errorf("样式 %s 继承了未定义的样式 %s", name, base)
			}
			if err := resolve(base, visiting); err != nil {
				return err
			}
			for k, v := range parent {
				if _, ok := props[k]; !ok && k != "extends" {
					props[k] = v
				}
			}
		}
		resolved[name] = true
		return nil
	}
	for name := range styles {
		if err := resolve(name, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	var meta DocumentMeta
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				continue
			}
			switch a.Key {
			case "title":
				meta.Title = valueToString(a.Value)
			case "author":
				meta.Author = valueToString(a.Value)
			case "subject":
				meta.Subject = valueToString(a.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(a.Value)
			}
		}
	}
	return meta
}

func resolveDisplaySize(params []*dsl.Arg) (int, int, error) {
	if len(params) < 2 {
		return 0, 0, fmt.Errorf("display 需要宽度与高度，例如 display 296 128")
	}
	w, err := strconv.Atoi(strings.TrimSuffix(params[0].Text, "px"))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("无效的屏幕宽度 %q", params[0].Text)
	}
	h, err := strconv.Atoi(strings.TrimSuffix(params[1].Text, "px"))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("无效的屏幕高度 %q", params[1].Text)
	}
	return w, h, nil
}

// parseArgs 把参数拆成可选的首个名称与 key value 对。
// 参数个数为奇数且首个参数是标识符或字符串时，首个参数视为样式或资源名。
func parseArgs(args []*dsl.Arg) (string, map[string]string) {
	result := map[string]string{}
	cursor := 0
	var name string
	if len(args)%2 == 1 && (args[0].Kind == "Ident" || args[0].Kind == "String") {
		name = args[0].Text
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[strings.ToLower(args[cursor].Text)] = args[cursor+1].Text
		cursor += 2
	}
	return name, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]map[string]string) map[string]string {
	out := make(map[string]string)
	if style != "" {
		for k, v := range styles[style] {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func blockProps(block *dsl.Block) map[string]string {
	props := map[string]string{}
	if block == nil {
		return props
	}
	for _, stmt := range block.Statements {
		if stmt.Assignment != nil {
			props[stmt.Assignment.Key] = valueToString(stmt.Assignment.Value)
		}
	}
	return props
}

func extractText(block *dsl.Block) string {
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func parsePixels(value string, reference int) (int, error) {
	l, ok := ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("无效的长度 %q", value)
	}
	return l.Resolve(reference), nil
}

// resourcePixels 读取资源中的像素尺寸；资源没有父容器，不接受百分比。
func resourcePixels(props map[string]string, key string) (int, error) {
	v, ok := props[key]
	if !ok {
		return 0, nil
	}
	l, ok := ParseLength(v)
	if !ok || l.Unit == UnitPercent || l.Value < 0 {
		return 0, fmt.Errorf("无效的%s %q", key, v)
	}
	return l.Value, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}

func joinArgs(parts []*dsl.Arg) string {
	var builder strings.Builder
	for _, p := range parts {
		builder.WriteString(p.Text)
	}
	return builder.String()
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array == nil {
		if s := valueToString(val); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		if s := valueToString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
