// Package raster 把布局绘制到 RGBA 帧缓冲，对应嵌入式小屏的显存。
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/flowpaint/fonts"
	"github.com/ByLCY/flowpaint/renderer"
)

// Options 配置帧缓冲。
type Options struct {
	Background color.Color
	Foreground color.Color
	// Monochrome 为 true 时编码前按 Threshold 二值化，适配墨水屏。
	Monochrome bool
	Threshold  uint8
	// Format 为 png（默认）或 bmp。
	Format string
	// Filter 是位图缩放使用的滤波器，默认最近邻。
	Filter *imaging.ResampleFilter
}

// Surface 是基于 image.RGBA 的绘制表面。
type Surface struct {
	img   *image.RGBA
	opts  Options
	level int
}

var _ renderer.Renderer = (*Surface)(nil)

// New 创建 width x height 的帧缓冲并用背景色填充。
func New(width, height int, opts Options) *Surface {
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Threshold == 0 {
		opts.Threshold = 128
	}
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.Filter == nil {
		opts.Filter = &imaging.NearestNeighbor
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{opts.Background}, image.Point{}, draw.Src)
	return &Surface{img: img, opts: opts, level: fonts.MinLevel}
}

// Image 返回帧缓冲本身。
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Black() color.Color { return s.opts.Foreground }

// DrawRect 绘制 1 像素宽的矩形边框。
func (s *Surface) DrawRect(x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	src := &image.Uniform{c}
	for _, r := range []image.Rectangle{
		image.Rect(x, y, x+w, y+1),
		image.Rect(x, y+h-1, x+w, y+h),
		image.Rect(x, y, x+1, y+h),
		image.Rect(x+w-1, y, x+w, y+h),
	} {
		draw.Draw(s.img, r, src, image.Point{}, draw.Src)
	}
}

func (s *Surface) SetTextSize(level int) { s.level = fonts.ClampLevel(level) }

// PrintText 以 (x, y) 为文字左上角，先按 1 倍字形绘制到遮罩，再按字号等级最近邻放大。
// 每个字符从自己的单元起点绘制，全角字符占两个单元，与 fonts.Fixed 的测量一致。
func (s *Surface) PrintText(x, y int, text string) {
	face := fonts.Face()
	cellW, cellH := fonts.Cell()
	width := runewidth.StringWidth(text) * cellW
	if width <= 0 {
		return
	}
	mask := image.NewAlpha(image.Rect(0, 0, width, cellH))
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	col := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		d.Dot = fixed.P(col*cellW, ascent)
		d.DrawString(string(r))
		col += rw
	}

	var scaled image.Image = mask
	if s.level > 1 {
		scaled = imaging.Resize(mask, width*s.level, cellH*s.level, imaging.NearestNeighbor)
	}
	b := scaled.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.DrawMask(s.img, dst, &image.Uniform{s.opts.Foreground}, image.Point{}, scaled, b.Min, draw.Over)
}

// DrawBitmap 把图片缩放到 w x h 后绘制到 (x, y)。
func (s *Surface) DrawBitmap(x, y int, img image.Image, w, h int) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	var src image.Image = img
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		src = imaging.Resize(img, w, h, *s.opts.Filter)
	}
	draw.Draw(s.img, image.Rect(x, y, x+w, y+h), src, src.Bounds().Min, draw.Over)
}

// Encode 以 Options.Format 编码帧缓冲。
func (s *Surface) Encode(w io.Writer) error {
	var out image.Image = s.img
	if s.opts.Monochrome {
		out = s.monochrome()
	}
	var format imaging.Format
	switch s.opts.Format {
	case "png":
		format = imaging.PNG
	case "bmp":
		format = imaging.BMP
	default:
		return fmt.Errorf("不支持的栅格格式 %s", s.opts.Format)
	}
	if err := imaging.Encode(w, out, format); err != nil {
		return fmt.Errorf("编码帧缓冲失败: %w", err)
	}
	return nil
}

// monochrome 按阈值把帧缓冲转换为黑白两色调色板图像。
func (s *Surface) monochrome() *image.Paletted {
	gray := imaging.Grayscale(s.img)
	b := gray.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), color.Palette{color.White, color.Black})
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if gray.NRGBAAt(b.Min.X+x, b.Min.Y+y).R < s.opts.Threshold {
				out.SetColorIndex(x, y, 1)
			}
		}
	}
	return out
}
