package entity

import (
	"strconv"
	"strings"
)

// DateFormat 日期格式偏好，原样传递给模型
type DateFormat string

const (
	DateISO8601    DateFormat = "ISO 8601"
	DateYMD        DateFormat = "YYYY-MM-DD"
	DateMDY        DateFormat = "MM/DD/YYYY"
	DateDMY        DateFormat = "DD/MM/YYYY"
	DateUnixMillis DateFormat = "Unix Timestamp (ms)"
)

// DateFormats 界面可选的日期格式
var DateFormats = []DateFormat{DateISO8601, DateYMD, DateMDY, DateDMY, DateUnixMillis}

// IsKnown 是否为预定义的日期格式
func (d DateFormat) IsKnown() bool {
	for _, known := range DateFormats {
		if d == known {
			return true
		}
	}
	return false
}

// DecimalPlaces 小数位偏好："default" 或 "0".."4"
type DecimalPlaces string

// DecimalDefault 不对数值做取整要求
const DecimalDefault DecimalPlaces = "default"

// MaxDecimalPlaces 界面允许的最大小数位
const MaxDecimalPlaces = 4

// DecimalChoices 界面可选的小数位
var DecimalChoices = []DecimalPlaces{DecimalDefault, "0", "1", "2", "3", "4"}

// Places 返回小数位数；"default" 或无法解析时 ok 为 false
func (d DecimalPlaces) Places() (n int, ok bool) {
	s := strings.TrimSpace(string(d))
	if s == "" || s == string(DecimalDefault) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsSelectable 是否为界面可选值
func (d DecimalPlaces) IsSelectable() bool {
	if d == DecimalDefault {
		return true
	}
	n, ok := d.Places()
	return ok && n <= MaxDecimalPlaces
}

// GenerationOptions 单次生成的格式化选项，提交后不再变化
type GenerationOptions struct {
	DateFormat    DateFormat    `json:"date_format"`
	DecimalPlaces DecimalPlaces `json:"decimal_places"`
}

// DefaultGenerationOptions 返回界面初始选项
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		DateFormat:    DateISO8601,
		DecimalPlaces: DecimalDefault,
	}
}

// Normalize 为空字段填充默认值
func (o GenerationOptions) Normalize() GenerationOptions {
	if strings.TrimSpace(string(o.DateFormat)) == "" {
		o.DateFormat = DateISO8601
	}
	if strings.TrimSpace(string(o.DecimalPlaces)) == "" {
		o.DecimalPlaces = DecimalDefault
	}
	return o
}
