// Package entity 定义领域实体
package entity

import "strings"

// OutputFormat 输出数据格式
type OutputFormat string

const (
	FormatJSON OutputFormat = "JSON"
	FormatCSV  OutputFormat = "CSV"
	FormatXML  OutputFormat = "XML"
	FormatTXT  OutputFormat = "TXT"
)

// Formats 按界面展示顺序列出全部格式
var Formats = []OutputFormat{FormatJSON, FormatCSV, FormatXML, FormatTXT}

// mimeTypes 格式到 MIME 类型的固定映射
var mimeTypes = map[OutputFormat]string{
	FormatJSON: "application/json",
	FormatCSV:  "text/csv",
	FormatXML:  "application/xml",
	FormatTXT:  "text/plain",
}

// DefaultMIMEType 未知格式使用的 MIME 类型
const DefaultMIMEType = "text/plain"

// ParseFormat 解析格式名称（大小写不敏感）
func ParseFormat(s string) (OutputFormat, bool) {
	f := OutputFormat(strings.ToUpper(strings.TrimSpace(s)))
	if f.IsValid() {
		return f, true
	}
	return "", false
}

// IsValid 是否为已知格式
func (f OutputFormat) IsValid() bool {
	_, ok := mimeTypes[f]
	return ok
}

// Extension 返回文件扩展名（格式名小写）
func (f OutputFormat) Extension() string {
	return strings.ToLower(string(f))
}

// MIMEType 返回导出文件的 MIME 类型
func (f OutputFormat) MIMEType() string {
	if m, ok := mimeTypes[f]; ok {
		return m
	}
	return DefaultMIMEType
}
