package layout

// Row 是横向流式容器：子节点自左向右排列，宽累加，高取最大值。
type Row struct {
	container
}

// NewRow 创建 Row。m 为 nil 时沿用父容器的文本测量器。
func NewRow(parent Container, m TextMeasurer, opts Options) (*Row, error) {
	box, err := newBox(parent, opts)
	if err != nil {
		return nil, err
	}
	r := &Row{container: container{Box: box, measurer: inheritMeasurer(parent, m)}}
	r.self = r
	return r, nil
}

// AddSpacer 追加 Spacer；与 Column 不同，Row 中的 Spacer 继承 Row 的 padding。
func (r *Row) AddSpacer(height int, outline bool) (*Spacer, error) {
	return r.addSpacer(height, r.Padding, outline)
}

// Measure 在 wrap-content 关闭时直接返回自身可用空间，不询问子节点。
func (r *Row) Measure() Size {
	if !r.WrapContent {
		return Size{W: r.LayoutWidth, H: r.LayoutHeight}
	}
	var out Size
	for _, child := range r.children {
		sz := child.Measure()
		out.W += sz.W + r.Padding
		if h := sz.H + r.Padding; h > out.H {
			out.H = h
		}
	}
	return out
}

// Draw 先测量全部子节点，再以固定的 dY 自左向右绘制。
//
// 子节点自身要求居中或右对齐时，dX 会被重置为 Row 的原点 x（而不是当前游标），
// 对齐总是相对父容器计算。位于中间的此类子节点可能与前一个兄弟重叠。
func (r *Row) Draw(s Surface, x, y int) {
	sizes, total := r.measureChildren()
	dX := r.alignX(x, total)
	dY := y + r.Padding
	for i, child := range r.children {
		sz := sizes[i]
		drawOutline(s, child, dX, dY, sz)
		if a := child.Base().Align; a == AlignCenter || a == AlignRight {
			dX = x
		}
		child.Draw(s, dX, dY)
		dX += sz.W + r.Padding
	}
}
