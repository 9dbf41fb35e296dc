package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func formatFieldsSection(fields []*Field) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Document fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Type", "Description", "Value")
	for _, f := range fields {
		value := ""
		if f.Filled() {
			value = *f.Value
		}
		_ = table.Append(f.Name, string(f.Type), f.Description, value)
	}
	_ = table.Render()
	return buf.String()
}

func formatHistorySection(history []*schema.Message) string {
	if len(history) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Recent conversation:\n")
	for _, m := range history {
		if m == nil || m.Content == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("- %s: %s\n", m.Role, m.Content))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatExtractionContext renders the bounded instruction context handed to
// the model tiers: current date, the target field with its format hint, the
// trimmed history and the new user message.
func FormatExtractionContext(field *Field, history []*schema.Message, message string) string {
	sections := []string{
		fmt.Sprintf("# Current date:\n%s", time.Now().Format(time.RFC3339)),
		fmt.Sprintf("# Target field:\n%s (%s): %s\n> expected format: %s",
			field.Name, field.Type, field.Description, TypeHint(field.Type)),
	}
	if s := formatHistorySection(history); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User message:\n%s", message))
	return strings.Join(sections, "\n\n")
}

// FormatFieldInventory renders the whole field list as a markdown table,
// used for prompts and for the CLI detect output.
func FormatFieldInventory(fields []*Field) string {
	return formatFieldsSection(fields)
}
