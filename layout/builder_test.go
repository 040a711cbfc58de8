package layout

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/ByLCY/flowpaint/dsl"
)

// stubMeasurer 按每字符 5*level 像素、每行 8*level 像素计算，避免测试依赖 fonts 造成循环引用。
type stubMeasurer struct{}

func (stubMeasurer) CharWidth(level int) int { return 5 * level }

func (m stubMeasurer) MeasureText(content string, level, padding int) Size {
	return Size{
		W: len([]rune(content))*m.CharWidth(level) + 2*padding,
		H: 8*level + 2*padding,
	}
}

// stubImages 返回固定尺寸的灰度图并记录请求过的来源。
type stubImages struct {
	requested []string
	fail      bool
}

func (s *stubImages) Image(src string) (image.Image, error) {
	s.requested = append(s.requested, src)
	if s.fail {
		return nil, errors.New("boom")
	}
	return image.NewGray(image.Rect(0, 0, 10, 8)), nil
}

func buildFromString(t *testing.T, input string, data any, opts BuildOptions) (*Scene, error) {
	t.Helper()
	doc, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.Measurer == nil {
		opts.Measurer = stubMeasurer{}
	}
	return Build(doc, data, opts)
}

func mustBuild(t *testing.T, input string, data any, opts BuildOptions) *Scene {
	t.Helper()
	scene, err := buildFromString(t, input, data, opts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return scene
}

func TestBuildScene(t *testing.T) {
	input := `
doc Screen v1 {
  meta {
    title: "Status"
    keywords: ["a", "b"]
  }
  display 200 100 {
    column padding 4 {
      text { "hello" }
      spacer 6
      row wrap false align right {
        text size 1 { "a" }
      }
    }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{})
	if scene.Width != 200 || scene.Height != 100 {
		t.Fatalf("unexpected display size %dx%d", scene.Width, scene.Height)
	}
	if scene.Meta.Title != "Status" || len(scene.Meta.Keywords) != 2 {
		t.Fatalf("unexpected meta: %+v", scene.Meta)
	}

	root, ok := scene.Root.(*Column)
	if !ok {
		t.Fatalf("expected column root, got %T", scene.Root)
	}
	if root.LayoutWidth != 192 || root.LayoutHeight != 92 || !root.WrapContent {
		t.Fatalf("unexpected root box: %+v", root.Box)
	}
	children := root.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}

	text, ok := children[0].(*TextNode)
	if !ok || text.Content != "hello" {
		t.Fatalf("expected text node, got %#v", children[0])
	}
	if text.TextSize != DefaultTextSize || text.Padding != DefaultTextPadding {
		t.Fatalf("text defaults not applied: size=%d padding=%d", text.TextSize, text.Padding)
	}
	if text.Parent() != Container(root) {
		t.Fatalf("text parent should be root")
	}

	sp, ok := children[1].(*Spacer)
	if !ok || sp.Height != 6 || sp.Width != 192 {
		t.Fatalf("unexpected spacer: %#v", children[1])
	}

	row, ok := children[2].(*Row)
	if !ok {
		t.Fatalf("expected row, got %T", children[2])
	}
	if row.WrapContent || row.Align != AlignRight {
		t.Fatalf("row attributes not applied: %+v", row.Box)
	}
	if len(row.Children()) != 1 {
		t.Fatalf("row should own its text child")
	}
}

func TestBuildLengthsAndDisplayOverride(t *testing.T) {
	input := `
doc Screen v1 {
  display 200 100 {
    row {
      column width 50% height 20 padding 2 outline true { }
    }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{Display: Size{W: 300}})
	if scene.Width != 300 || scene.Height != 100 {
		t.Fatalf("display override not applied: %dx%d", scene.Width, scene.Height)
	}
	col := scene.Root.Children()[0].(*Column)
	if col.LayoutWidth != 146 || col.LayoutHeight != 16 || !col.Outline {
		t.Fatalf("unexpected column box: %+v", col.Box)
	}
}

func TestBuildStylesExtends(t *testing.T) {
	input := `
doc Screen v1 {
  resources {
    style Base { size: 2 align: right padding: 1 }
    style Title { extends: Base align: center }
  }
  display 200 100 {
    column {
      text Title { "x" }
      text Title size 1 { "y" }
    }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{})
	children := scene.Root.Children()
	first := children[0].(*TextNode)
	if first.TextSize != 2 || first.Align != AlignCenter || first.Padding != 1 {
		t.Fatalf("style chain not resolved: size=%d align=%s padding=%d", first.TextSize, first.Align, first.Padding)
	}
	second := children[1].(*TextNode)
	if second.TextSize != 1 || second.Align != AlignCenter {
		t.Fatalf("inline attributes should override style: size=%d align=%s", second.TextSize, second.Align)
	}
}

func TestBuildStyleCycle(t *testing.T) {
	input := `
doc Screen v1 {
  resources {
    style A { extends: B }
    style B { extends: A }
  }
  display 10 10 { column { } }
}
`
	if _, err := buildFromString(t, input, nil, BuildOptions{}); err == nil || !strings.Contains(err.Error(), "循环") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestBuildEachAndBinding(t *testing.T) {
	input := `
doc Screen v1 {
  display 200 100 {
    column {
      text size 1 { "Hi ${user.name}" }
      each user.tags {
        text size 1 { "${index}:${item}" }
      }
    }
  }
}
`
	data := map[string]any{
		"user": map[string]any{
			"name": "Ada",
			"tags": []any{"go", "eink"},
		},
	}
	scene := mustBuild(t, input, data, BuildOptions{})
	var got []string
	for _, child := range scene.Root.Children() {
		got = append(got, child.(*TextNode).Content)
	}
	want := "Hi Ada|0:go|1:eink"
	if strings.Join(got, "|") != want {
		t.Fatalf("unexpected contents %q, want %q", strings.Join(got, "|"), want)
	}
}

func TestBuildTruncatesLongText(t *testing.T) {
	input := `
doc Screen v1 {
  display 60 40 {
    column {
      text size 1 padding 0 { "abcdefghijklmnopqrstuvwxyz" }
    }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{})
	text := scene.Root.Children()[0].(*TextNode)
	// 60/5 - 4 = 8 个字符加省略号。
	if text.Content != "abcdefgh..." {
		t.Fatalf("unexpected truncation %q", text.Content)
	}
}

func TestBuildImages(t *testing.T) {
	input := `
doc Screen v1 {
  resources {
    image logo { src: "logo.png" width: 16 height: 12 }
  }
  display 200 100 {
    row {
      image logo
      image logo width 20
      image src "icons/${name}.png" wrap false padding 2
    }
  }
}
`
	images := &stubImages{}
	scene := mustBuild(t, input, map[string]any{"name": "wifi"}, BuildOptions{Images: images})
	if strings.Join(images.requested, ",") != "logo.png,logo.png,icons/wifi.png" {
		t.Fatalf("unexpected image requests %v", images.requested)
	}
	children := scene.Root.Children()
	first := children[0].(*ImageNode)
	if first.Width != 16 || first.Height != 12 || !first.WrapContent {
		t.Fatalf("resource size not applied: %+v", first)
	}
	if second := children[1].(*ImageNode); second.Width != 20 || second.Height != 12 {
		t.Fatalf("inline width should override: %dx%d", second.Width, second.Height)
	}
	third := children[2].(*ImageNode)
	if third.Width != 10 || third.Height != 8 || third.WrapContent || third.Padding != 2 {
		t.Fatalf("decoded bounds should be used: %+v", third)
	}
	if got := third.Measure(); got != (Size{W: 12, H: 10}) {
		t.Fatalf("unexpected image measure %+v", got)
	}
}

func TestBuildImageResourcePixels(t *testing.T) {
	input := `
doc Screen v1 {
  resources {
    image icon { src: "icon.png" width: 16px height: 16px }
  }
  display 100 50 {
    column { image icon }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{Images: &stubImages{}})
	img := scene.Root.Children()[0].(*ImageNode)
	if img.Width != 16 || img.Height != 16 {
		t.Fatalf("px resource size should be used, got %dx%d", img.Width, img.Height)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		opts  BuildOptions
		want  string
	}{
		{
			name:  "no root",
			input: `doc S v1 { display 10 10 { spacer 4 } }`,
			want:  "根容器",
		},
		{
			name:  "two roots",
			input: `doc S v1 { display 10 10 { column { } row { } } }`,
			want:  "只能包含一个根容器",
		},
		{
			name:  "bad display",
			input: `doc S v1 { display 0 10 { column { } } }`,
			want:  "屏幕宽度",
		},
		{
			name:  "missing image source",
			input: `doc S v1 { display 10 10 { column { image src "a.png" } } }`,
			want:  "ImageSource",
		},
		{
			name:  "undeclared image",
			input: `doc S v1 { display 10 10 { column { image nope } } }`,
			opts:  BuildOptions{Images: &stubImages{}},
			want:  "未声明的图片资源",
		},
		{
			name:  "image load failure",
			input: `doc S v1 { display 10 10 { column { image src "a.png" } } }`,
			opts:  BuildOptions{Images: &stubImages{fail: true}},
			want:  "boom",
		},
		{
			name:  "bad resource width",
			input: `doc S v1 { resources { image a { src: "a.png" width: wide } } display 10 10 { column { } } }`,
			want:  "无效的width",
		},
		{
			name:  "percent resource height",
			input: `doc S v1 { resources { image a { src: "a.png" height: 50% } } display 10 10 { column { } } }`,
			want:  "无效的height",
		},
		{
			name:  "bad length",
			input: `doc S v1 { display 10 10 { column { column width abc { } } } }`,
			want:  "无效的长度",
		},
		{
			name:  "bad text size",
			input: `doc S v1 { display 10 10 { column { text size 0 { "a" } } } }`,
			want:  "字号",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildFromString(t, tc.input, nil, tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildRequiresDisplayAndMeasurer(t *testing.T) {
	doc, err := dsl.ParseString(`doc S v1 { meta { title: "x" } }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Build(doc, nil, BuildOptions{Measurer: stubMeasurer{}}); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
	if _, err := Build(doc, nil, BuildOptions{}); err == nil {
		t.Fatalf("expected missing measurer error")
	}
	if _, err := Build(nil, nil, BuildOptions{Measurer: stubMeasurer{}}); err == nil {
		t.Fatalf("expected nil document error")
	}
}

func TestBuildIgnoresUnknownCommands(t *testing.T) {
	input := `
doc S v1 {
  display 50 50 {
    column {
      blink fast
      text size 1 { "ok" }
    }
  }
}
`
	scene := mustBuild(t, input, nil, BuildOptions{})
	if n := len(scene.Root.Children()); n != 1 {
		t.Fatalf("expected unknown command to be skipped, got %d children", n)
	}
}
