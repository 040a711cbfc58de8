package layout

// 该文件定义构建结果与调试快照，供 CLI、渲染器与调试 JSON 共用。

// Scene 是由 DSL 构建出的一帧画面：根容器已绑定到显示屏尺寸。
type Scene struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Root   Container    `json:"-"`
	Meta   DocumentMeta `json:"meta"`
}

// Draw 以屏幕左上角为原点绘制整棵树。
func (s *Scene) Draw(surface Surface) {
	if s == nil || s.Root == nil {
		return
	}
	s.Root.Draw(surface, 0, 0)
}

// DocumentMeta 保存文档元信息，矢量输出时写入文件属性。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords"`
}

// NodeSnapshot 是单个节点在某一时刻的测量快照。
type NodeSnapshot struct {
	Kind         string         `json:"kind"`
	LayoutWidth  int            `json:"layoutWidth"`
	LayoutHeight int            `json:"layoutHeight"`
	Padding      int            `json:"padding"`
	Align        string         `json:"align"`
	WrapContent  bool           `json:"wrapContent"`
	Outline      bool           `json:"outline,omitempty"`
	Measured     Size           `json:"measured"`
	Content      string         `json:"content,omitempty"`
	TextSize     int            `json:"textSize,omitempty"`
	Children     []NodeSnapshot `json:"children,omitempty"`
}
