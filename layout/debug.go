package layout

import (
	"encoding/json"
	"os"
)

// Describe 递归测量节点并生成快照，便于调试布局。
func Describe(n Node) NodeSnapshot {
	b := n.Base()
	snap := NodeSnapshot{
		LayoutWidth:  b.LayoutWidth,
		LayoutHeight: b.LayoutHeight,
		Padding:      b.Padding,
		Align:        b.Align.String(),
		WrapContent:  b.WrapContent,
		Outline:      b.Outline,
		Measured:     n.Measure(),
	}
	switch v := n.(type) {
	case *Column:
		snap.Kind = "column"
	case *Row:
		snap.Kind = "row"
	case *TextNode:
		snap.Kind = "text"
		snap.Content = v.Content
		snap.TextSize = v.TextSize
	case *ImageNode:
		snap.Kind = "image"
	case *Spacer:
		snap.Kind = "spacer"
	default:
		snap.Kind = "node"
	}
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			snap.Children = append(snap.Children, Describe(child))
		}
	}
	return snap
}

// WriteDebugJSON 将场景的测量快照输出为 JSON。
func WriteDebugJSON(scene *Scene, path string) error {
	if scene == nil || scene.Root == nil {
		return nil
	}
	data, err := json.MarshalIndent(Describe(scene.Root), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
