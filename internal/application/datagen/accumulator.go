package datagen

import (
	"fmt"
	"strings"
	"sync"
)

// Accumulator 单次生成期间不断增长的文本
// 展示层可在流式过程中随时读取部分结果
type Accumulator struct {
	mu  sync.RWMutex
	buf strings.Builder
}

// Reset 清空已累积的文本
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.buf.Reset()
	a.mu.Unlock()
}

// Append 追加一个片段
func (a *Accumulator) Append(chunk string) {
	a.mu.Lock()
	a.buf.WriteString(chunk)
	a.mu.Unlock()
}

// String 返回完整文本
func (a *Accumulator) String() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buf.String()
}

// Len 返回完整文本的字节数
func (a *Accumulator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buf.Len()
}

// Preview 预览结果：只截断展示，不影响存储值
type Preview struct {
	Text        string `json:"text"`
	TotalLines  int    `json:"total_lines"`
	HiddenLines int    `json:"hidden_lines"`
}

// Note 返回截断提示，未截断时为空
func (p Preview) Note() string {
	if p.HiddenLines <= 0 {
		return ""
	}
	return fmt.Sprintf("... %d more lines", p.HiddenLines)
}

// Preview 返回最多 limit 行的展示文本
func (a *Accumulator) Preview(limit int) Preview {
	return PreviewText(a.String(), limit)
}

// PreviewText 对任意文本做行数截断；limit <= 0 表示不截断
func PreviewText(text string, limit int) Preview {
	if text == "" {
		return Preview{}
	}
	lines := strings.Split(text, "\n")
	total := len(lines)
	if limit <= 0 || total <= limit {
		return Preview{Text: text, TotalLines: total}
	}
	return Preview{
		Text:        strings.Join(lines[:limit], "\n"),
		TotalLines:  total,
		HiddenLines: total - limit,
	}
}
