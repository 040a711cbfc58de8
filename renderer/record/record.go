// Package record 提供按顺序记录绘制原语的表面，用于测试与 -trace 调试输出。
package record

import (
	"encoding/json"
	"image"
	"image/color"
	"io"

	"github.com/ByLCY/flowpaint/layout"
	"github.com/ByLCY/flowpaint/renderer"
)

// Op 是一条绘制原语。
type Op struct {
	Kind  string `json:"kind"` // rect | textSize | text | bitmap
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	W     int    `json:"w,omitempty"`
	H     int    `json:"h,omitempty"`
	Level int    `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`

	Color color.Color `json:"-"`
	Image image.Image `json:"-"`
}

// Surface 记录收到的每一条原语。
type Surface struct {
	Ops []Op
}

var _ renderer.Renderer = (*Surface)(nil)

func (s *Surface) DrawRect(x, y, w, h int, c color.Color) {
	s.Ops = append(s.Ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (s *Surface) SetTextSize(level int) {
	s.Ops = append(s.Ops, Op{Kind: "textSize", Level: level})
}

func (s *Surface) PrintText(x, y int, text string) {
	s.Ops = append(s.Ops, Op{Kind: "text", X: x, Y: y, Text: text})
}

func (s *Surface) DrawBitmap(x, y int, img image.Image, w, h int) {
	s.Ops = append(s.Ops, Op{Kind: "bitmap", X: x, Y: y, W: w, H: h, Image: img})
}

func (s *Surface) Black() color.Color { return color.Black }

// Filter 返回指定类型的原语。
func (s *Surface) Filter(kind string) []Op {
	var out []Op
	for _, op := range s.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset 清空已记录的原语。
func (s *Surface) Reset() { s.Ops = s.Ops[:0] }

// Encode 以 JSON 数组写出原语序列。
func (s *Surface) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	ops := s.Ops
	if ops == nil {
		ops = []Op{}
	}
	return enc.Encode(ops)
}

// Trace 绘制场景并返回记录结果。
func Trace(scene *layout.Scene) *Surface {
	s := &Surface{}
	scene.Draw(s)
	return s
}
