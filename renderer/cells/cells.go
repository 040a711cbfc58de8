// Package cells 在终端里预览布局：像素坐标按 1 倍字符单元映射到字符网格。
package cells

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/mattn/go-runewidth"

	"github.com/ByLCY/flowpaint/fonts"
	"github.com/ByLCY/flowpaint/renderer"
)

// shades 按亮度从暗到亮排列，用于把位图降采样为字符。
var shades = []rune{'█', '▓', '▒', '░', ' '}

// wideTail 标记全角字符占用的第二个单元。
const wideTail rune = -1

// Options 配置终端预览。
type Options struct {
	// Frame 为 true 时用圆角边框包住整个屏幕。
	Frame      bool
	FrameColor string
}

// Surface 是字符网格绘制表面。
type Surface struct {
	grid         [][]rune
	cellW, cellH int
	level        int
	opts         Options
}

var _ renderer.Renderer = (*Surface)(nil)

// New 创建覆盖 width x height 像素的字符网格。
func New(width, height int, opts Options) *Surface {
	cw, ch := fonts.Cell()
	cols := (width + cw - 1) / cw
	rows := (height + ch - 1) / ch
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	return &Surface{grid: grid, cellW: cw, cellH: ch, level: fonts.MinLevel, opts: opts}
}

func (s *Surface) Black() color.Color { return color.Black }

func (s *Surface) cell(x, y int) (int, int) {
	return floorDiv(x, s.cellW), floorDiv(y, s.cellH)
}

func (s *Surface) set(col, row int, r rune) {
	if row < 0 || row >= len(s.grid) || col < 0 || col >= len(s.grid[row]) {
		return
	}
	s.grid[row][col] = r
}

// DrawRect 用制表符画出矩形覆盖到的单元边框。
func (s *Surface) DrawRect(x, y, w, h int, _ color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c0, r0 := s.cell(x, y)
	c1, r1 := s.cell(x+w-1, y+h-1)
	for c := c0; c <= c1; c++ {
		s.set(c, r0, '─')
		s.set(c, r1, '─')
	}
	for r := r0; r <= r1; r++ {
		s.set(c0, r, '│')
		s.set(c1, r, '│')
	}
	s.set(c0, r0, '┌')
	s.set(c1, r0, '┐')
	s.set(c0, r1, '└')
	s.set(c1, r1, '┘')
}

func (s *Surface) SetTextSize(level int) { s.level = fonts.ClampLevel(level) }

// PrintText 从 (x, y) 所在单元开始写入文字；字号等级 n 时每个字符单元横向占 n 格。
func (s *Surface) PrintText(x, y int, text string) {
	col, row := s.cell(x, y)
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		s.set(col, row, r)
		if rw == 2 {
			s.set(col+1, row, wideTail)
		}
		col += rw * s.level
	}
}

// DrawBitmap 把位图降采样到覆盖的单元数，并按亮度映射为阴影字符。
func (s *Surface) DrawBitmap(x, y int, img image.Image, w, h int) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	c0, r0 := s.cell(x, y)
	c1, r1 := s.cell(x+w-1, y+h-1)
	cols, rows := c1-c0+1, r1-r0+1
	small := imaging.Grayscale(imaging.Resize(img, cols, rows, imaging.Box))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px := small.NRGBAAt(c, r)
			lum := int(px.R)
			if px.A < 0x80 {
				lum = 0xff
			}
			s.set(c0+c, r0+r, shades[lum*(len(shades)-1)/0xff])
		}
	}
}

// String 返回不带边框的网格文本。
func (s *Surface) String() string {
	lines := make([]string, len(s.grid))
	for i, row := range s.grid {
		var b strings.Builder
		for _, r := range row {
			if r != wideTail {
				b.WriteRune(r)
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Encode 输出网格，Frame 打开时用 lipgloss 加边框。
func (s *Surface) Encode(w io.Writer) error {
	out := s.String()
	if s.opts.Frame {
		style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
		if s.opts.FrameColor != "" {
			style = style.BorderForeground(lipgloss.Color(s.opts.FrameColor))
		}
		out = style.Render(out)
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
