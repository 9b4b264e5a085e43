// Package datagen 实现假数据生成流水线：指令编译 -> 流式调用 -> 累积 -> 导出
package datagen

import (
	"fmt"
	"strings"

	"dummy-data-api/internal/domain/entity"
)

// formatGuidance 各格式的专属指令，彼此不得出现其他格式的名称或关键要求
var formatGuidance = map[entity.OutputFormat]string{
	entity.FormatJSON: `Output format: JSON.
- Return a single valid JSON array of objects, one object per record.
- Use double quotes for every key and string value.
- Do not include comments or trailing commas.`,

	entity.FormatCSV: `Output format: CSV.
- The first line must be a header row with the column names.
- Separate fields with commas and records with newlines.
- Wrap any field containing a comma, quote or line break in double quotes and double the embedded quotes.`,

	entity.FormatXML: `Output format: XML.
- Start with the declaration <?xml version="1.0" encoding="UTF-8"?>.
- Wrap all records in a single root element, with one child element per record.
- Escape the characters &, < and > inside element text.`,

	entity.FormatTXT: plainTextGuidance,
}

// plainTextGuidance 纯文本指令，同时作为未知格式的兜底
const plainTextGuidance = `Output format: TXT (plain text).
- Present each record on its own line or as a short readable block.
- Separate records with a blank line when a record spans several lines.
- Do not use any markup or structured syntax.`

// dateRules 预定义日期格式的说明与示例
var dateRules = map[entity.DateFormat]string{
	entity.DateISO8601:    `ISO 8601 (for example 2024-01-15T10:30:00Z)`,
	entity.DateYMD:        `YYYY-MM-DD (for example 2024-01-15)`,
	entity.DateMDY:        `MM/DD/YYYY (for example 01/15/2024)`,
	entity.DateDMY:        `DD/MM/YYYY (for example 15/01/2024)`,
	entity.DateUnixMillis: `a Unix timestamp in milliseconds, written as an integer (for example 1705314600000)`,
}

// generationRequest 作为 user 消息发送的固定请求
const generationRequest = "Generate the dummy data now, following the instructions exactly."

// CompileInstruction 将用户描述与选项渲染为发送给模型的系统指令
// 纯函数：不产生副作用，不会失败
func CompileInstruction(userPrompt string, format entity.OutputFormat, opts entity.GenerationOptions) string {
	opts = opts.Normalize()

	guidance, ok := formatGuidance[format]
	if !ok {
		guidance = plainTextGuidance
	}

	var b strings.Builder
	b.WriteString("You are a dummy data generator. Produce realistic sample data that matches the user's description.\n\n")
	b.WriteString(guidance)
	b.WriteString("\n\nGeneral rules:\n")
	b.WriteString("- Output only the raw data. Do not add explanations, headings, notes or markdown code fences.\n")
	b.WriteString("- Keep values realistic, varied and consistent with each other.\n")
	b.WriteString("- Write every date and timestamp as ")
	b.WriteString(dateRule(opts.DateFormat))
	b.WriteString(".\n")
	if n, ok := opts.DecimalPlaces.Places(); ok {
		fmt.Fprintf(&b, "- Round all numeric values to %d decimal places.\n", n)
	}
	b.WriteString("\nUser request:\n")
	b.WriteString(strings.TrimSpace(userPrompt))

	return b.String()
}

// dateRule 未知的日期格式按用户给出的字符串原样要求
func dateRule(d entity.DateFormat) string {
	if rule, ok := dateRules[d]; ok {
		return rule
	}
	return fmt.Sprintf("%q exactly", strings.TrimSpace(string(d)))
}
