package layout

// Column 是纵向流式容器：子节点自上而下排列，宽取最大值，高累加。
type Column struct {
	container
}

// NewColumn 创建 Column。m 为 nil 时沿用父容器的文本测量器。
func NewColumn(parent Container, m TextMeasurer, opts Options) (*Column, error) {
	box, err := newBox(parent, opts)
	if err != nil {
		return nil, err
	}
	c := &Column{container: container{Box: box, measurer: inheritMeasurer(parent, m)}}
	c.self = c
	return c, nil
}

// AddSpacer 追加一个占据 height 像素纵向空间的 Spacer。
func (c *Column) AddSpacer(height int, outline bool) (*Spacer, error) {
	return c.addSpacer(height, 0, outline)
}

// Measure 在 wrap-content 关闭时直接返回自身可用空间，不询问子节点。
func (c *Column) Measure() Size {
	if !c.WrapContent {
		return Size{W: c.LayoutWidth, H: c.LayoutHeight}
	}
	var out Size
	for _, child := range c.children {
		sz := child.Measure()
		if w := sz.W + c.Padding; w > out.W {
			out.W = w
		}
		out.H += sz.H + c.Padding
	}
	return out
}

// Draw 先测量全部子节点，再以固定的 dX 自上而下绘制。
// 居中/右对齐使用的是所有子节点宽度之和，而不是最大宽度。
func (c *Column) Draw(s Surface, x, y int) {
	sizes, total := c.measureChildren()
	dX := c.alignX(x, total)
	dY := y + c.Padding
	for i, child := range c.children {
		sz := sizes[i]
		drawOutline(s, child, dX, dY, sz)
		child.Draw(s, dX, dY)
		dY += sz.H + c.Padding
	}
}

func inheritMeasurer(parent Container, m TextMeasurer) TextMeasurer {
	if m != nil {
		return m
	}
	if p, ok := parent.(interface{ Measurer() TextMeasurer }); ok && !isNilNode(parent) {
		return p.Measurer()
	}
	return nil
}
