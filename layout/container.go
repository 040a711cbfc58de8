package layout

import "image"

// container 是 Column 与 Row 共享的子节点管理逻辑。self 指向外层节点，作为新建子节点的父节点。
type container struct {
	Box
	self     Container
	measurer TextMeasurer
	children []Node
}

// Composite 是带便捷构造方法的容器，Column 与 Row 都实现它。
type Composite interface {
	Container
	AddSpacer(height int, outline bool) (*Spacer, error)
	AddText(content string, opts TextOptions) (*TextNode, error)
	AddImage(img image.Image, width, height int, opts ImageOptions) (*ImageNode, error)
}

var (
	_ Composite = (*Column)(nil)
	_ Composite = (*Row)(nil)
)

// TextOptions 控制 AddText 创建的文本节点。
type TextOptions struct {
	Size    int
	Padding int
	Align   Align
}

// DefaultTextOptions 返回字号等级 3、内边距 5、左对齐。
func DefaultTextOptions() TextOptions {
	return TextOptions{Size: DefaultTextSize, Padding: DefaultTextPadding, Align: AlignLeft}
}

// ImageOptions 控制 AddImage 创建的图片节点。
type ImageOptions struct {
	Padding     int
	WrapContent bool
	Align       Align
}

// DefaultImageOptions 返回 wrap-content 打开、左对齐的图片参数。
func DefaultImageOptions() ImageOptions {
	return ImageOptions{WrapContent: true, Align: AlignLeft}
}

// AddNode 追加子节点。nil 节点被忽略并返回 Ignored，不报错。
func (c *container) AddNode(n Node) AddResult {
	if isNilNode(n) {
		return Ignored
	}
	c.children = append(c.children, n)
	return Added
}

// Children 返回子节点切片（按插入顺序）。
func (c *container) Children() []Node { return c.children }

// Measurer 返回容器创建文本节点时使用的测量器。
func (c *container) Measurer() TextMeasurer { return c.measurer }

func (c *container) addSpacer(height, padding int, outline bool) (*Spacer, error) {
	sp, err := NewSpacer(c.self, height, padding, outline)
	if err != nil {
		return nil, err
	}
	c.AddNode(sp)
	return sp, nil
}

// AddText 创建文本节点并按容器宽度截断后追加。
func (c *container) AddText(content string, opts TextOptions) (*TextNode, error) {
	node, err := NewTextNode(c.self, c.measurer, content, opts)
	if err != nil {
		return nil, err
	}
	node = Overflow(node, c.LayoutWidth)
	c.AddNode(node)
	return node, nil
}

// AddImage 创建图片节点并追加。
func (c *container) AddImage(img image.Image, width, height int, opts ImageOptions) (*ImageNode, error) {
	node, err := NewImageNode(c.self, img, width, height, opts)
	if err != nil {
		return nil, err
	}
	c.AddNode(node)
	return node, nil
}

// measureChildren 对每个直接子节点测量一次，结果是本次绘制的唯一依据。
func (c *container) measureChildren() ([]Size, int) {
	sizes := make([]Size, len(c.children))
	total := 0
	for i, child := range c.children {
		sizes[i] = child.Measure()
		total += sizes[i].W
	}
	return sizes, total
}

func drawOutline(s Surface, child Node, x, y int, sz Size) {
	if child.Base().Outline {
		s.DrawRect(x, y, sz.W, sz.H, s.Black())
	}
}
