package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/flowpaint/fonts"
	"github.com/ByLCY/flowpaint/layout"
	"github.com/ByLCY/flowpaint/renderer"
)

const (
	defaultPitch = 0.25 // mm per pixel
	ptToMm       = 0.352777
)

// Renderer 通过 github.com/tdewolff/canvas 把绘制原语输出为 PDF 或 SVG。
// 像素坐标按 Pitch（毫米/像素）换算到页面坐标。
type Renderer struct {
	width, height int
	pitch         float64
	format        string
	meta          layout.DocumentMeta

	c      *canvas.Canvas
	ctx    *canvas.Context
	family *canvas.FontFamily
	level  int
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Pitch 是每个像素对应的毫米数，<=0 时使用 0.25。
	Pitch float64
	// Format 为 pdf（默认）或 svg。
	Format string
	// Font 为空时使用 Go Regular。
	Font Resource
	Meta layout.DocumentMeta
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 创建 width x height 像素的矢量画布。字体加载失败时返回错误。
func NewRenderer(width, height int, opts Options) (*Renderer, error) {
	pitch := opts.Pitch
	if pitch <= 0 {
		pitch = defaultPitch
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "svg" {
		return nil, fmt.Errorf("不支持的矢量格式 %s", opts.Format)
	}

	r := &Renderer{
		width:  width,
		height: height,
		pitch:  pitch,
		format: format,
		meta:   opts.Meta,
		level:  fonts.MinLevel,
	}
	r.c = canvas.New(r.mm(width), r.mm(height))
	r.ctx = canvas.NewContext(r.c)
	r.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	data, err := loadFontBytes(opts.Font)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		data = goregular.TTF
	}
	family := canvas.NewFontFamily("flowpaint")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r.family = family
	return r, nil
}

func loadFontBytes(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
	}
	return data, nil
}

func (r *Renderer) mm(px int) float64 { return float64(px) * r.pitch }

func (r *Renderer) Black() color.Color { return canvas.Black }

// DrawRect 绘制宽度为一个像素的矩形边框。
func (r *Renderer) DrawRect(x, y, w, h int, c color.Color) {
	r.ctx.SetFillColor(canvas.Transparent)
	r.ctx.SetStrokeColor(c)
	r.ctx.SetStrokeWidth(r.pitch)
	r.ctx.DrawPath(r.mm(x), r.mm(y), canvas.Rectangle(r.mm(w), r.mm(h)))
}

func (r *Renderer) SetTextSize(level int) { r.level = fonts.ClampLevel(level) }

// PrintText 以 (x, y) 为文字顶部输出一行文本；字号按字符单元高度换算。
func (r *Renderer) PrintText(x, y int, text string) {
	sizePt := r.mm(fonts.Fixed{}.CharHeight(r.level)) / ptToMm
	face := r.family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	line := canvas.NewTextLine(face, text, canvas.Left)
	r.ctx.DrawText(r.mm(x), r.mm(y)+face.Metrics().Ascent, line)
}

// DrawBitmap 先把位图缩放到 w x h 像素，再按 1/Pitch 的分辨率放到页面上。
func (r *Renderer) DrawBitmap(x, y int, img image.Image, w, h int) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	var src image.Image = img
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		src = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}
	r.ctx.DrawImage(r.mm(x), r.mm(y), src, canvas.DPMM(1/r.pitch))
}

// Encode 把画布写出为 PDF 或 SVG。
func (r *Renderer) Encode(w io.Writer) error {
	width, height := r.mm(r.width), r.mm(r.height)
	switch r.format {
	case "svg":
		writer := svg.New(w, width, height, nil)
		r.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		writer := pdf.New(w, width, height, nil)
		keywords := strings.Join(r.meta.Keywords, ", ")
		writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, "flowpaint")
		r.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return nil
}
