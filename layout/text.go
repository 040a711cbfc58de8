package layout

import "errors"

const (
	// DefaultTextSize 是未指定字号时使用的等级。
	DefaultTextSize = 3
	// DefaultTextPadding 是 AddText 默认的内边距。
	DefaultTextPadding = 5
	// Ellipsis 是截断后追加的省略标记。
	Ellipsis = "..."
	// ellipsisReserve 是截断时为省略号预留的字符数。
	ellipsisReserve = 4
)

var errNoMeasurer = errors.New("layout: 文本节点缺少 TextMeasurer")

// TextNode 是单行文本叶子节点，尺寸在构造时测量一次。
type TextNode struct {
	Box
	Content  string
	TextSize int

	measurer TextMeasurer
	measured Size
}

// NewTextNode 创建文本节点并立即测量。m 为 nil 时沿用父容器的测量器。
// 文本节点只继承父节点的宽高，opts 中没有显式尺寸。
func NewTextNode(parent Container, m TextMeasurer, content string, opts TextOptions) (*TextNode, error) {
	m = inheritMeasurer(parent, m)
	if m == nil {
		return nil, errNoMeasurer
	}
	box, err := newBox(parent, Options{Padding: opts.Padding, Align: opts.Align})
	if err != nil {
		return nil, err
	}
	return &TextNode{
		Box:      box,
		Content:  content,
		TextSize: opts.Size,
		measurer: m,
		measured: m.MeasureText(content, opts.Size, opts.Padding),
	}, nil
}

// Measure 返回构造时缓存的测量结果。
func (t *TextNode) Measure() Size { return t.measured }

// Draw 设置字号后在对齐后的位置输出文本。
func (t *TextNode) Draw(s Surface, x, y int) {
	dX := t.alignX(x, t.measured.W)
	dY := y + t.Padding
	s.SetTextSize(t.TextSize)
	s.PrintText(dX, dY, t.Content)
}

// Overflow 在文本测量宽度不小于 target 时返回截断并追加省略号的新节点，否则原样返回。
//
// 截断位置为 target/字符宽度 - 4；结果不大于 0 时只保留省略号。
// 新节点沿用原节点的父节点、字号与内边距，对齐回到默认的左对齐。
func Overflow(node *TextNode, target int) *TextNode {
	if node.measured.W < target {
		return node
	}
	index := 0
	if cw := node.measurer.CharWidth(node.TextSize); cw > 0 {
		index = target/cw - ellipsisReserve
	}
	runes := []rune(node.Content)
	if index < 0 {
		index = 0
	}
	if index > len(runes) {
		index = len(runes)
	}

	replacement, err := NewTextNode(node.parent, node.measurer, string(runes[:index])+Ellipsis, TextOptions{
		Size:    node.TextSize,
		Padding: node.Padding,
	})
	if err != nil {
		// 父节点与原节点相同，这里实际不会失败。
		return node
	}
	return replacement
}
