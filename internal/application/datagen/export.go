package datagen

import (
	"fmt"
	"os"
	"path/filepath"

	"dummy-data-api/internal/domain/entity"
)

const exportBaseName = "dummy-data"

// Artifact 待下载的文件
type Artifact struct {
	FileName string
	MIMEType string
	Content  []byte
}

// Download 构造下载文件；内容为空时什么也不做
func Download(content string, format entity.OutputFormat) (*Artifact, bool) {
	if content == "" {
		return nil, false
	}
	ext := format.Extension()
	if ext == "" {
		ext = entity.FormatTXT.Extension()
	}
	return &Artifact{
		FileName: exportBaseName + "." + ext,
		MIMEType: format.MIMEType(),
		Content:  []byte(content),
	}, true
}

// Clipboard 系统剪贴板
type Clipboard interface {
	WriteAll(text string) error
}

// CopyToClipboard 把完整文本写入剪贴板；内容为空时什么也不做。
// "已复制" 的临时反馈由调用方负责复位。
func CopyToClipboard(clip Clipboard, content string) (bool, error) {
	if content == "" {
		return false, nil
	}
	if clip == nil {
		return false, fmt.Errorf("clipboard not available")
	}
	if err := clip.WriteAll(content); err != nil {
		return false, fmt.Errorf("write clipboard: %w", err)
	}
	return true, nil
}

// SaveFile 将文件写入 dir，返回完整路径
func SaveFile(dir string, a *Artifact) (string, error) {
	if a == nil {
		return "", fmt.Errorf("nothing to save")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
