// Package clipboard 适配系统剪贴板
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// System 系统剪贴板
type System struct{}

// NewSystem 创建系统剪贴板；当前平台不支持时返回错误
func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("clipboard is not supported on this platform")
	}
	return &System{}, nil
}

// WriteAll 写入完整文本
func (s *System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ReadAll 读取剪贴板文本
func (s *System) ReadAll() (string, error) {
	return clipboard.ReadAll()
}
