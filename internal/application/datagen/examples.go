package datagen

import "dummy-data-api/internal/domain/entity"

// Example 快捷示例
type Example struct {
	Label  string              `json:"label"`
	Prompt string              `json:"prompt"`
	Format entity.OutputFormat `json:"format"`
}

var examples = []Example{
	{
		Label:  "Users",
		Prompt: "10 users with id, full name, email, signup date and country",
		Format: entity.FormatJSON,
	},
	{
		Label:  "Products",
		Prompt: "15 e-commerce products with sku, name, category, price and stock quantity",
		Format: entity.FormatCSV,
	},
	{
		Label:  "Orders",
		Prompt: "5 orders, each with an order id, customer name, order date and 1-3 line items with price",
		Format: entity.FormatXML,
	},
	{
		Label:  "Server logs",
		Prompt: "20 web server access log lines with timestamp, method, path, status code and latency in ms",
		Format: entity.FormatTXT,
	},
	{
		Label:  "Transactions",
		Prompt: "12 bank transactions with id, account number, amount, currency and booking date",
		Format: entity.FormatCSV,
	},
}

// Examples 返回快捷示例的副本
func Examples() []Example {
	out := make([]Example, len(examples))
	copy(out, examples)
	return out
}
