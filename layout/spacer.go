package layout

// Spacer 只占据纵向空间，不绘制任何内容。
type Spacer struct {
	Box
	Width  int
	Height int
}

// NewSpacer 创建 Spacer，宽度取父容器解析后的可用宽度（再减去自身 padding）。
func NewSpacer(parent Container, height, padding int, outline bool) (*Spacer, error) {
	box, err := newBox(parent, Options{Padding: padding, Outline: outline})
	if err != nil {
		return nil, err
	}
	return &Spacer{Box: box, Width: box.LayoutWidth, Height: height}, nil
}

func (s *Spacer) Measure() Size { return Size{W: s.Width, H: s.Height} }
