// Package assets 解析图片资源：内置字节资源（built-in:<name>）或相对 BaseDir 的文件路径。
package assets

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"

	"github.com/ByLCY/flowpaint/layout"
)

// Loader 实现 layout.ImageSource。
type Loader struct {
	BaseDir string
	// Builtin 按名称保存内置图片字节，通过 built-in:<name> 引用。
	Builtin map[string][]byte
}

var _ layout.ImageSource = (*Loader)(nil)

// NewLoader 创建以 baseDir 为资源目录的加载器。
func NewLoader(baseDir string) *Loader {
	return &Loader{BaseDir: baseDir, Builtin: map[string][]byte{}}
}

// Image 解码 src 指向的图片。
func (l *Loader) Image(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("图片来源为空")
	}
	if name, ok := builtinName(src); ok {
		blob, found := l.Builtin[name]
		if !found {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, err := imaging.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}

	path := src
	if !filepath.IsAbs(path) {
		if l.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", src)
		}
		path = filepath.Join(l.BaseDir, path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	return img, nil
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix), true
		}
	}
	return "", false
}
