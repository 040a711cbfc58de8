package layout

import (
	"errors"
	"fmt"
	"reflect"
)

// 该文件定义布局树的公共契约：节点尺寸解析、测量与绘制接口。

// Align 描述节点在父容器分配空间内的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String 返回 DSL 中使用的对齐名称。
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign 将 left/center/right（以及 start/end/middle 别名）解析为 Align，未知值按 left 处理。
func ParseAlign(v string) Align {
	switch v {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Size 是以像素为单位的占用尺寸。
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// IsZero reports whether the size carries no footprint.
func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// ErrInvalidConstraint 表示节点既没有父节点也没有完整的显式尺寸。
var ErrInvalidConstraint = errors.New("layout: 无效的尺寸约束，必须指定父节点或宽高")

// InvalidConstraintError 记录构造失败时传入的显式尺寸。
type InvalidConstraintError struct {
	Width  int
	Height int
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("%v (width=%d height=%d)", ErrInvalidConstraint, e.Width, e.Height)
}

// Unwrap 让 errors.Is(err, ErrInvalidConstraint) 成立。
func (e *InvalidConstraintError) Unwrap() error { return ErrInvalidConstraint }

// Options 是所有节点共用的构造参数。Width/Height 为 0 表示继承父节点。
type Options struct {
	Width       int
	Height      int
	Padding     int
	WrapContent bool
	Align       Align
	Outline     bool
}

// Node 是布局树中的单个元素。
type Node interface {
	// Base 返回节点的公共状态。
	Base() *Box
	// Measure 返回节点的固有尺寸，每次调用都会重新计算。
	Measure() Size
	// Draw 以 (x, y) 为左上角把节点绘制到 surface。
	Draw(s Surface, x, y int)
}

// Container 是拥有有序子节点的组合节点（Column、Row）。
type Container interface {
	Node
	AddNode(n Node) AddResult
	Children() []Node
}

// AddResult 是向容器添加子节点的结果。无效节点被静默忽略，但结果在签名中可见。
type AddResult int

const (
	Added AddResult = iota
	Ignored
)

func (r AddResult) String() string {
	if r == Added {
		return "added"
	}
	return "ignored"
}

// Box 保存节点解析后的可用空间与公共属性，供各节点类型嵌入。
//
// parent 只是回指，不持有父节点；子节点只由父容器的 children 切片持有。
type Box struct {
	parent Container

	LayoutWidth  int
	LayoutHeight int
	Padding      int
	WrapContent  bool
	Align        Align
	Outline      bool
}

// newBox 解析节点的可用空间：显式值优先，缺省时继承父节点，最后两侧各减去 padding。
// 减去 padding 后可能为负数，这里不做校验。
func newBox(parent Container, opts Options) (Box, error) {
	if isNilNode(parent) {
		parent = nil
	}
	if parent == nil && (opts.Width == 0 || opts.Height == 0) {
		return Box{}, &InvalidConstraintError{Width: opts.Width, Height: opts.Height}
	}

	b := Box{
		parent:      parent,
		Padding:     opts.Padding,
		WrapContent: opts.WrapContent,
		Align:       opts.Align,
		Outline:     opts.Outline,
	}
	if parent != nil && opts.Width == 0 {
		b.LayoutWidth = parent.Base().LayoutWidth
	} else {
		b.LayoutWidth = opts.Width
	}
	if parent != nil && opts.Height == 0 {
		b.LayoutHeight = parent.Base().LayoutHeight
	} else {
		b.LayoutHeight = opts.Height
	}

	b.LayoutWidth -= 2 * b.Padding
	b.LayoutHeight -= 2 * b.Padding
	return b, nil
}

// Base implements Node.
func (b *Box) Base() *Box { return b }

// Parent 返回父容器，根节点返回 nil。
func (b *Box) Parent() Container { return b.parent }

// Measure 的默认实现：没有固有尺寸，返回零值。
func (b *Box) Measure() Size { return Size{} }

// Draw 的默认实现不绘制任何内容。
func (b *Box) Draw(Surface, int, int) {}

// alignX 计算内容在 LayoutWidth 内的水平起点，content 为参与对齐的内容宽度。
func (b *Box) alignX(x, content int) int {
	switch b.Align {
	case AlignCenter:
		return x + (b.LayoutWidth/2 - content/2)
	case AlignRight:
		return x + (b.LayoutWidth - content)
	default:
		return x + b.Padding
	}
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
