package layout

import (
	"image"
	"image/color"
)

// BuildOptions 配置由 DSL 构建布局树时所需的外部协作者。
type BuildOptions struct {
	Measurer TextMeasurer
	Images   ImageSource
	// Display 的宽高非 0 时覆盖 display 段落声明的屏幕尺寸。
	Display Size
}

// TextMeasurer 负责把文本按字号等级与内边距换算成像素宽高。
type TextMeasurer interface {
	// MeasureText 返回 content 在 level 字号、padding 内边距下的像素尺寸。
	MeasureText(content string, level, padding int) Size
	// CharWidth 返回 level 字号下单个字符的固定宽度，用于截断计算。
	CharWidth(level int) int
}

// ImageSource 按资源描述解析出位图。
type ImageSource interface {
	Image(src string) (image.Image, error)
}

// Surface 是布局核心使用的最小绘制接口。
// 实现方不需要加锁，同一时刻只应有一个调用方使用。
type Surface interface {
	DrawRect(x, y, w, h int, c color.Color)
	SetTextSize(level int)
	PrintText(x, y int, text string)
	DrawBitmap(x, y int, img image.Image, w, h int)
	// Black 返回描边使用的默认颜色。
	Black() color.Color
}
