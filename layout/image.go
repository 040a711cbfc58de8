package layout

import "image"

// ImageNode 引用一张外部位图（不复制），Width/Height 是位图的显示尺寸。
type ImageNode struct {
	Box
	Image  image.Image
	Width  int
	Height int
}

// NewImageNode 创建图片节点，可用空间继承自父容器。
func NewImageNode(parent Container, img image.Image, width, height int, opts ImageOptions) (*ImageNode, error) {
	box, err := newBox(parent, Options{
		Padding:     opts.Padding,
		WrapContent: opts.WrapContent,
		Align:       opts.Align,
	})
	if err != nil {
		return nil, err
	}
	return &ImageNode{Box: box, Image: img, Width: width, Height: height}, nil
}

// Measure 在 wrap-content 打开时返回可用空间（忽略位图尺寸），否则返回位图尺寸加 padding。
func (n *ImageNode) Measure() Size {
	if n.WrapContent {
		return Size{W: n.LayoutWidth, H: n.LayoutHeight}
	}
	return Size{W: n.Width + n.Padding, H: n.Height + n.Padding}
}

// Draw 总是按显式的 Width/Height 绘制位图。
func (n *ImageNode) Draw(s Surface, x, y int) {
	dX := n.alignX(x, n.Width)
	dY := y + n.Padding
	s.DrawBitmap(dX, dY, n.Image, n.Width, n.Height)
}
