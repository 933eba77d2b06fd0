package app

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

// DefaultFontName 是内置等宽字体的缓存名
const DefaultFontName = "gomono"

// ResourceManager 负责字体的加载和缓存
//
// 同一路径和字号只解析一次。非并发安全，只在主 goroutine 中使用。
type ResourceManager struct {
	sourceCache   map[string]*text.GoTextFaceSource // 字体名/路径 -> 字体源
	fontFaceCache map[string]*text.GoTextFace       // "名称:字号" -> 字体
}

// NewResourceManager 创建空的资源管理器
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		sourceCache:   make(map[string]*text.GoTextFaceSource),
		fontFaceCache: make(map[string]*text.GoTextFace),
	}
}

// LoadFont 从文件加载字体并创建指定字号的字体
//
// 参数:
//   - path: 字体文件路径（TTF/OTF）
//   - size: 字号
//
// 返回:
//   - *text.GoTextFace: 可直接用于 text.Draw 的字体
//   - error: 读取或解析失败
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	if face := rm.GetFont(path, size); face != nil {
		return face, nil
	}

	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	return rm.LoadFontBytes(path, fontData, size)
}

// LoadFontBytes 从内存数据加载字体，name 用作缓存键
func (rm *ResourceManager) LoadFontBytes(name string, data []byte, size float64) (*text.GoTextFace, error) {
	if face := rm.GetFont(name, size); face != nil {
		return face, nil
	}

	source, ok := rm.sourceCache[name]
	if !ok {
		var err error
		source, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
		}
		rm.sourceCache[name] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[fontCacheKey(name, size)] = face
	return face, nil
}

// LoadDefaultFont 加载内置的 Go Mono 字体
func (rm *ResourceManager) LoadDefaultFont(size float64) (*text.GoTextFace, error) {
	return rm.LoadFontBytes(DefaultFontName, gomono.TTF, size)
}

// GetFont 返回已缓存的字体，未加载时返回 nil
func (rm *ResourceManager) GetFont(name string, size float64) *text.GoTextFace {
	return rm.fontFaceCache[fontCacheKey(name, size)]
}

func fontCacheKey(name string, size float64) string {
	return fmt.Sprintf("%s:%.1f", name, size)
}
