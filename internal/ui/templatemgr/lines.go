package templatemgr

import (
	"fmt"
	"strings"

	"github.com/nhle/clientdeck/internal/model"
)

// ParseItemLines reads the one-item-per-line editor format:
//
//	[*]type: prompt [| option, option]
//
// A leading "*" marks the item required. Lines without a type prefix are
// checkboxes. Options are only read for select items. Ids are carried over
// from previous items with the same type and prompt.
func ParseItemLines(s string, previous []model.TemplateItem) ([]model.TemplateItem, error) {
	var items []model.TemplateItem
	used := make(map[string]bool)
	for n, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item model.TemplateItem
		if rest, ok := strings.CutPrefix(line, "*"); ok {
			item.IsRequired = true
			line = strings.TrimSpace(rest)
		}

		item.Type = model.ItemCheckbox
		if head, rest, ok := strings.Cut(line, ":"); ok && model.ItemType(strings.TrimSpace(head)).Valid() {
			item.Type = model.ItemType(strings.TrimSpace(head))
			line = rest
		}

		if item.Type == model.ItemSelect {
			text, opts, _ := strings.Cut(line, "|")
			line = text
			item.Options = model.ParseOptions(opts)
			if len(item.Options) == 0 {
				return nil, fmt.Errorf("line %d: select items need options after |", n+1)
			}
		}

		item.Text = strings.TrimSpace(line)
		if item.Text == "" && item.Type != model.ItemObservations {
			return nil, fmt.Errorf("line %d: missing prompt", n+1)
		}
		item.ID = previousID(previous, item, used)
		used[item.ID] = true
		items = append(items, item)
	}
	return items, nil
}

func previousID(previous []model.TemplateItem, item model.TemplateItem, used map[string]bool) string {
	for _, p := range previous {
		if p.Type == item.Type && p.Text == item.Text && !used[p.ID] {
			return p.ID
		}
	}
	return ""
}

// FormatItemLines renders items in the editor format read by
// ParseItemLines.
func FormatItemLines(items []model.TemplateItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		var b strings.Builder
		if item.IsRequired {
			b.WriteString("*")
		}
		b.WriteString(string(item.Type))
		b.WriteString(": ")
		b.WriteString(item.Text)
		if item.Type == model.ItemSelect && len(item.Options) > 0 {
			b.WriteString(" | ")
			b.WriteString(strings.Join(item.Options, ", "))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
