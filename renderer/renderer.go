package renderer

import (
	"io"

	"github.com/ByLCY/flowpaint/layout"
)

// Renderer 是可以把已绘制内容编码输出的绘制表面，例如 PNG 帧缓冲或 PDF。
// 先把场景绘制到 Renderer，再调用 Encode 写出结果。
type Renderer interface {
	layout.Surface
	Encode(w io.Writer) error
}

// Render 把场景绘制到 r 并写出编码结果。
func Render(scene *layout.Scene, r Renderer, w io.Writer) error {
	scene.Draw(r)
	return r.Encode(w)
}
