// Package fonts 提供嵌入式小屏常用的等宽点阵字体度量。
//
// 每个字号等级 n 使用 basicfont 7x13 字形放大 n 倍，字符单元为 7n x 13n 像素。
package fonts

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ByLCY/flowpaint/layout"
)

const (
	// MinLevel 和 MaxLevel 限定可用的字号等级。
	MinLevel = 1
	MaxLevel = 8

	baseCellWidth  = 7
	baseCellHeight = 13
)

// widths 是各字号等级下单个字符的宽度（下标即等级，0 号不用）。
var widths = [MaxLevel + 1]int{0, 7, 14, 21, 28, 35, 42, 49, 56}

// Fixed 实现 layout.TextMeasurer。零值可直接使用。
type Fixed struct{}

var _ layout.TextMeasurer = Fixed{}

// ClampLevel 把等级限制在 [MinLevel, MaxLevel]。
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// CharWidth 返回 level 下单个字符单元的宽度。
func (Fixed) CharWidth(level int) int { return widths[ClampLevel(level)] }

// CharHeight 返回 level 下单个字符单元的高度。
func (Fixed) CharHeight(level int) int { return baseCellHeight * ClampLevel(level) }

// MeasureText 按显示宽度计数字符单元：全角字符占两个单元。左右与上下各加一次 padding。
func (f Fixed) MeasureText(content string, level, padding int) layout.Size {
	cells := runewidth.StringWidth(content)
	return layout.Size{
		W: cells*f.CharWidth(level) + 2*padding,
		H: f.CharHeight(level) + 2*padding,
	}
}

// Face 返回 1 倍大小的点阵字形，栅格渲染器再按等级放大。
func Face() font.Face { return basicfont.Face7x13 }

// Cell 返回 1 倍字符单元尺寸。
func Cell() (int, int) { return baseCellWidth, baseCellHeight }
